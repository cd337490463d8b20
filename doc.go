// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote runs a single administrator-controlled election: voters are
registered, submit proposals, cast one vote each, and the proposal with the
most votes wins. The administrator may veto proposals and step the workflow
forward on a deadline.

# Starting the Server

The server reads environment variables (optionally from a .env file) or CLI
flags:

	ADMIN_ADDRESS=0x... PRINCIPAL_KEY_SALT=... go run .

Or with flags:

	go run . -p 3318 -t sqlite -d quickly-vote.db -admin 0x...

# Configuration

Required settings:

  - ADMIN_ADDRESS (-admin): Administrator principal
  - PRINCIPAL_KEY_SALT (-key-salt): Secret for principal key HMAC
  - DATABASE_URL (-d): Journal database (file path or postgres:// URL)

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - NTP_SERVER (-ntp): Correct the deadline clock against an NTP server
  - NTP_INTERVAL (-ntp-interval): Time between NTP checks
  - LOG_LEVEL (-log-level): debug, info, warn or error
  - ENV_FILE: Path of the .env file (default: .env)

The administrator's principal key is logged once at startup.

# Architecture

  - election: The voting workflow state machine
  - handlers: HTTP request handlers (workflow, voting, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, principal authentication, JSON helpers
  - models: Request/response types
  - auth: Address parsing and principal keys
  - clock: System and NTP-corrected clocks
  - db: Database connection and event journal
  - cliparse: Configuration parsing

On startup the election is rebuilt by replaying the event journal.
*/
package main
