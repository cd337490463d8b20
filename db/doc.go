// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database connections, schema creation and the election
journal.

# Connections

Open selects the driver by database type and pings the server:

	conn, err := db.Open(ctx, db.TypePostgres, "postgres://...")
	conn, err := db.Open(ctx, db.TypeSQLite, "quickly-vote.db")

PostgreSQL uses lib/pq; SQLite uses the pure-Go modernc.org/sqlite driver
and is limited to a single open connection.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - election_event: one row per election notification, keyed by sequence,
    with a UUID id, the event kind, its JSON payload and the time it was
    recorded

# Journal

Journal.Record is registered as an election observer. Each notification is
written before its command is applied, and a failed write rejects the
command, so the table never has a gap:

	j := db.NewJournal(conn, cfg.DatabaseType, logger)
	events, err := j.Load(ctx)
	e, err := election.Restore(admin, events, election.WithObserver(j.Record))

List pages through entries for the events endpoint.
*/
package db
