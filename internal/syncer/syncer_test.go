package syncer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"

	"github.com/verte-zerg/ridestats/internal/syncer"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunReplacesStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockfetcher(ctrl)
	store := NewMockreplacer(ctrl)

	records := []json.RawMessage{json.RawMessage(`{"id":1}`), json.RawMessage(`{"id":2}`)}
	fetcher.EXPECT().FetchAll(gomock.Any()).Return(records, nil)
	store.EXPECT().Replace(gomock.Any(), records).Return(nil)

	require.NoError(t, syncer.New(fetcher, store).Run(context.Background()))
}

func TestRunEmptyFetchLeavesStoreUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockfetcher(ctrl)
	store := NewMockreplacer(ctrl)

	fetcher.EXPECT().FetchAll(gomock.Any()).Return(nil, nil)
	store.EXPECT().Replace(gomock.Any(), gomock.Any()).Times(0)

	err := syncer.New(fetcher, store).Run(context.Background())
	assert.ErrorIs(t, err, syncer.ErrNothingFetched)
}

func TestRunFetchErrorLeavesStoreUntouched(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockfetcher(ctrl)
	store := NewMockreplacer(ctrl)

	boom := errors.New("boom")
	fetcher.EXPECT().FetchAll(gomock.Any()).Return(nil, boom)
	store.EXPECT().Replace(gomock.Any(), gomock.Any()).Times(0)

	err := syncer.New(fetcher, store).Run(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestRunEveryContinuesAfterFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := NewMockfetcher(ctrl)
	store := NewMockreplacer(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	records := []json.RawMessage{json.RawMessage(`{"id":1}`)}
	gomock.InOrder(
		fetcher.EXPECT().FetchAll(gomock.Any()).Return(nil, errors.New("offline")),
		fetcher.EXPECT().FetchAll(gomock.Any()).Return(records, nil),
	)
	store.EXPECT().Replace(gomock.Any(), records).DoAndReturn(func(context.Context, []json.RawMessage) error {
		cancel()
		return nil
	})

	done := make(chan error, 1)
	go func() {
		done <- syncer.New(fetcher, store).RunEvery(ctx, 10*time.Millisecond)
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunEvery did not stop after cancellation")
	}
}

func TestRunEveryRejectsNonPositiveInterval(t *testing.T) {
	s := syncer.New(nil, nil)
	assert.Error(t, s.RunEvery(context.Background(), 0))
}
