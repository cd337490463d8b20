// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package clock provides the time sources used for workflow deadlines.

System is the local UTC clock. Syncer corrects it by the offset reported by
an NTP server, refreshed on an interval:

	s, err := clock.NewSyncer("pool.ntp.org", time.Minute, logger)
	if err := s.Start(ctx); err != nil { ... }
	defer s.Stop()
	now := s.Now()

Offset changes smaller than 500ms are ignored to avoid jitter.
*/
package clock
