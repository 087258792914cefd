// Package syncer refreshes the local activity cache from the provider.
package syncer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// ErrNothingFetched is returned when the provider yields no activities.
var ErrNothingFetched = errors.New("provider returned no activities")

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=syncer_test

type fetcher interface {
	FetchAll(ctx context.Context) ([]json.RawMessage, error)
}

type replacer interface {
	Replace(ctx context.Context, records []json.RawMessage) error
}

// Syncer copies the provider's activity history into a store.
type Syncer struct {
	fetcher fetcher
	store   replacer
}

// New creates a Syncer.
func New(f fetcher, s replacer) *Syncer {
	return &Syncer{fetcher: f, store: s}
}

// Run fetches every activity and replaces the store contents wholesale.
// The store is left untouched when the fetch fails or returns nothing.
func (s *Syncer) Run(ctx context.Context) error {
	started := time.Now()
	records, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("fetch activities: %w", err)
	}
	if len(records) == 0 {
		return ErrNothingFetched
	}
	if err := s.store.Replace(ctx, records); err != nil {
		return fmt.Errorf("replace cache: %w", err)
	}
	log.WithFields(log.Fields{
		"records":  len(records),
		"duration": time.Since(started).Round(time.Millisecond),
	}).Info("activity cache synced")
	return nil
}

// RunEvery runs once immediately, then every interval until ctx is done.
// Failed runs are logged and the loop continues.
func (s *Syncer) RunEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", interval)
	}
	s.runLogged(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				return nil
			}
			s.runLogged(ctx)
		}
	}
}

func (s *Syncer) runLogged(ctx context.Context) {
	if err := s.Run(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Errorf("sync failed: %s", err)
	}
}
