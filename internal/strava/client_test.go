package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeStrava struct {
	t     *testing.T
	pages map[int][]string

	mu        sync.Mutex
	refreshes int
	requested []int
}

func (f *fakeStrava) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		assert.Equal(f.t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(f.t, "rt-1", r.PostForm.Get("refresh_token"))
		assert.Equal(f.t, "id-1", r.PostForm.Get("client_id"))
		assert.Equal(f.t, "secret-1", r.PostForm.Get("client_secret"))
		f.mu.Lock()
		f.refreshes++
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/api/athlete/activities", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer at-1" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil {
			http.Error(w, "bad page", http.StatusBadRequest)
			return
		}
		assert.Equal(f.t, "2", r.URL.Query().Get("per_page"))
		f.mu.Lock()
		f.requested = append(f.requested, page)
		f.mu.Unlock()

		records := []json.RawMessage{}
		for i, date := range f.pages[page] {
			records = append(records, json.RawMessage(fmt.Sprintf(
				`{"id":%d,"type":"Ride","start_date":%q,"distance":1000,"moving_time":60}`,
				page*10+i, date,
			)))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(records)
	})
	return mux
}

func newTestClient(t *testing.T, fake *fakeStrava) *Client {
	t.Helper()
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)
	return NewClient(context.Background(),
		Credentials{ClientID: "id-1", ClientSecret: "secret-1", RefreshToken: "rt-1"},
		WithBaseURL(srv.URL+"/api"),
		WithTokenURL(srv.URL+"/oauth/token"),
		WithPerPage(2),
		WithHTTPClient(srv.Client()),
	)
}

func TestFetchAllStopsOnEmptyPage(t *testing.T) {
	fake := &fakeStrava{t: t, pages: map[int][]string{
		1: {"2024-05-03T07:00:00Z", "2024-05-02T07:00:00Z"},
		2: {"2024-05-01T07:00:00Z"},
	}}
	client := newTestClient(t, fake)

	records, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, []int{1, 2, 3}, fake.requested)
	assert.Equal(t, 1, fake.refreshes)
}

func TestFetchAllStopsOnRepeatedPage(t *testing.T) {
	fake := &fakeStrava{t: t, pages: map[int][]string{
		1: {"2024-05-03T07:00:00Z", "2024-05-02T07:00:00Z"},
		2: {"2024-05-01T07:00:00Z", "2024-04-30T07:00:00Z"},
		3: {"2024-05-01T07:00:00Z", "2024-04-30T07:00:00Z"},
	}}
	client := newTestClient(t, fake)

	records, err := client.FetchAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 4)
	assert.Equal(t, []int{1, 2, 3}, fake.requested)
}

func TestListActivitiesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(context.Background(),
		Credentials{ClientID: "id", ClientSecret: "secret", RefreshToken: "rt"},
		WithBaseURL(srv.URL),
		WithTokenURL(srv.URL+"/oauth/token"),
		WithHTTPClient(srv.Client()),
	)
	_, err := client.ListActivities(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestLoadCredentials(t *testing.T) {
	ctx := context.Background()
	creds, err := loadCredentials(ctx, envconfig.MapLookuper(map[string]string{
		"STRAVA_CLIENT_ID":     "42",
		"STRAVA_CLIENT_SECRET": "s3cret",
		"STRAVA_REFRESH_TOKEN": "refresh",
	}))
	require.NoError(t, err)
	assert.Equal(t, Credentials{ClientID: "42", ClientSecret: "s3cret", RefreshToken: "refresh"}, creds)

	_, err = loadCredentials(ctx, envconfig.MapLookuper(map[string]string{
		"STRAVA_CLIENT_ID": "42",
	}))
	assert.Error(t, err)
}
