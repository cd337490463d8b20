// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package clock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/beevik/ntp"
)

const (
	// Offsets that move by less than this are ignored.
	allowedOffsetDrift = 500 * time.Millisecond
	minSyncInterval    = 5 * time.Second
)

// System is the local UTC clock.
type System struct{}

// Now returns the current UTC time.
func (System) Now() time.Time { return time.Now().UTC() }

// Syncer is a clock corrected by the offset reported by an NTP server.
// Until the first successful query it behaves like System.
type Syncer struct {
	mu     sync.RWMutex
	offset time.Duration

	server   string
	interval time.Duration
	logger   *slog.Logger
	query    func(server string) (time.Duration, error)

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSyncer creates a Syncer polling server every interval.
func NewSyncer(server string, interval time.Duration, logger *slog.Logger) (*Syncer, error) {
	if server == "" {
		return nil, errors.New("ntp server is required")
	}
	if interval <= 0 {
		return nil, fmt.Errorf("invalid ntp interval %s", interval)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		server:   server,
		interval: interval,
		logger:   logger.With("component", "clock", "server", server),
		query:    queryOffset,
	}, nil
}

func queryOffset(server string) (time.Duration, error) {
	resp, err := ntp.Query(server)
	if err != nil {
		return 0, fmt.Errorf("failed to query ntp server %q: %w", server, err)
	}
	if err := resp.Validate(); err != nil {
		return 0, fmt.Errorf("invalid response from ntp server %q: %w", server, err)
	}
	return resp.ClockOffset, nil
}

// Start queries the server once, failing if it cannot be reached, then keeps
// the offset fresh in the background until ctx is done or Stop is called.
func (s *Syncer) Start(ctx context.Context) error {
	if err := s.check(); err != nil {
		return err
	}
	if s.interval < minSyncInterval {
		s.logger.Warn("ntp interval too short", "interval", s.interval, "min_interval", minSyncInterval)
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.run(ctx)
	s.logger.Info("clock sync started", "interval", s.interval, "offset", s.Offset())
	return nil
}

// Stop ends background syncing and waits for it to exit.
func (s *Syncer) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
}

func (s *Syncer) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("clock sync stopped")
			return
		case <-ticker.C:
			if err := s.check(); err != nil {
				s.logger.Error("clock sync failed", "error", err)
			}
		}
	}
}

func (s *Syncer) check() error {
	offset, err := s.query(s.server)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	diff := s.offset - offset
	if s.offset != 0 && diff < allowedOffsetDrift && diff > -allowedOffsetDrift {
		return nil
	}
	s.offset = offset
	s.logger.Debug("clock offset updated", "offset", offset)
	return nil
}

// Offset returns the latest accepted offset.
func (s *Syncer) Offset() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.offset
}

// Now returns the local UTC time corrected by Offset.
func (s *Syncer) Now() time.Time {
	return time.Now().Add(s.Offset()).UTC()
}
