package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog"

	"github.com/akave-ai/patientingest/internal/config"
	"github.com/akave-ai/patientingest/internal/handler"
	"github.com/akave-ai/patientingest/internal/logging"
	"github.com/akave-ai/patientingest/internal/server"
	"github.com/akave-ai/patientingest/internal/storage"
)

func main() {
	serveAddr := flag.String("serve", "", "serve POST /invoke on this address (e.g. :8080) instead of running under the Lambda runtime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		boot := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("could not load configuration")
	}

	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err := cfg.Validate(); err != nil {
		// Only missing buckets fail invocations; other settings fall back to defaults.
		logger.Warn().Err(err).Msg("configuration has problems")
	}

	ctx := context.Background()
	store, err := storage.NewS3Store(ctx, cfg.S3)
	if err != nil {
		logger.Fatal().Err(err).Msg("could not build s3 client")
	}

	h := handler.New(store, cfg, logger)

	if *serveAddr == "" {
		lambda.Start(h.Handle)
		return
	}

	// Local S3-compatible stores start empty.
	if cfg.S3.Endpoint != "" {
		for _, bucket := range []string{cfg.RawDataBucket, cfg.ProcessedDataBucket} {
			if bucket == "" {
				continue
			}
			if err := store.EnsureBucket(ctx, bucket); err != nil {
				logger.Warn().Err(err).Str("bucket", bucket).Msg("ensure bucket failed")
			}
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(h, logger).Start(ctx, *serveAddr); err != nil {
		logger.Error().Err(err).Msg("local server exited")
		stop()
		os.Exit(1)
	}
}
