package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/clock"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/election"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/router"
)

func main() {
	var err error

	// Load .env before reading the environment
	if err := cliparse.LoadEnvFile(); err != nil {
		slog.Error("Error loading env file", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Text logs on a terminal, JSON otherwise
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to the journal database
	dbConn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(dbConn); err != nil {
		slog.Error("schema creation failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)

	journal := db.NewJournal(dbConn, cfg.DatabaseType, logger)
	events, err := journal.Load(ctx)
	if err != nil {
		slog.Error("journal load failed", "error", err)
		os.Exit(1)
	}

	// Deadlines use NTP-corrected time when a server is configured
	var clk election.Clock = clock.System{}
	if cfg.NTPServer != "" {
		syncer, err := clock.NewSyncer(cfg.NTPServer, cfg.NTPInterval, logger)
		if err != nil {
			slog.Error("ntp configuration failed", "error", err)
			os.Exit(1)
		}
		if err := syncer.Start(ctx); err != nil {
			slog.Error("ntp sync failed", "server", cfg.NTPServer, "error", err)
			os.Exit(1)
		}
		defer syncer.Stop()
		clk = syncer
	}

	// Rebuild the election from its journal
	e, err := election.Restore(cfg.AdminAddress, events,
		election.WithObserver(journal.Record),
		election.WithClock(clk),
		election.WithLogger(logger),
	)
	if err != nil {
		slog.Error("election restore failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Election ready",
		"administrator", cfg.AdminAddress.Hex(),
		"administrator_key", auth.GeneratePrincipalKey(cfg.AdminAddress, cfg.PrincipalKeySalt),
		"phase", e.Phase().String(),
	)

	// Create router
	mux := router.NewRouter(e, journal, cfg, clk)

	// Create server
	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
