// Command minicc-api serves the compiler over HTTP. POST /compile runs
// the full pipeline and returns the stage-by-stage result as JSON. With
// a database configured, runs can be persisted and listed back.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

func main() {
	var (
		addr            = flag.String("addr", ":8080", "Address to listen on")
		databaseURL     = flag.String("database-url", "", "PostgreSQL URL for run persistence (empty disables persistence)")
		maxInstructions = flag.Int64("max-instructions", 10_000_000, "Instruction limit per compile request (0 means unlimited)")
		timeout         = flag.Duration("timeout", 5*time.Second, "Execution timeout per compile request")
		debug           = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()
	if !*debug {
		logger = logger.Level(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *RunStore
	if *databaseURL != "" {
		var err error
		store, err = NewRunStore(ctx, *databaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer store.Close()
		logger.Info().Msg("run persistence enabled")
	} else {
		logger.Info().Msg("run persistence disabled")
	}

	server := NewServer(logger, store,
		WithServerMaxInstructions(*maxInstructions),
		WithServerTimeout(*timeout))

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.Routes(),
	}

	go func() {
		logger.Info().Str("addr", *addr).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}
