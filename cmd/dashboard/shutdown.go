package main

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

type httpShutdowner interface {
	Shutdown(ctx context.Context) error
}

// shutdown stops the service in dependency order: the HTTP server drains
// in-flight requests, then the publisher is cancelled and flushes whatever
// those requests enqueued, then the writer is closed. stopPublisher and
// writer may be nil when publishing is disabled.
func shutdown(ctx context.Context, logger *slog.Logger, srv httpShutdowner, stopPublisher context.CancelFunc, publisherDone *sync.WaitGroup, writer io.Closer) {
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	if stopPublisher != nil {
		stopPublisher()
	}
	publisherDone.Wait()

	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
}
