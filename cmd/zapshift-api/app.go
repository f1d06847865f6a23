package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/BearBump/ZapShift/internal/broker/messages"
	"github.com/BearBump/ZapShift/internal/services/trackings"
	"github.com/pkg/errors"
)

type apiOpts struct {
	httpAddr        string
	swaggerPath     string
	shutdownTimeout time.Duration

	ingestTopic   string
	consumerGroup string
	// ingest records why the consumer stopped; nil skips the bookkeeping.
	ingest *ingestStatus

	onListen func(httpAddr string)
}

type kafkaConsumer interface {
	Consume(ctx context.Context, handle func(context.Context, messages.TrackingIngest) error) error
}

// ingestStatus is the readiness view of the tracking ingest consumer. Once the
// consumer stops on an error it stays down until the process restarts, and
// /readyz reports it.
type ingestStatus struct {
	mu  sync.Mutex
	err error
}

func (s *ingestStatus) stopped(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *ingestStatus) Check(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return errors.Wrap(s.err, "tracking ingest consumer stopped")
	}
	return nil
}

// runAPI serves handler until ctx is cancelled. A non-nil consumer feeds the
// tracking ingest topic into svc for the same lifetime.
func runAPI(ctx context.Context, opts apiOpts, handler http.Handler, svc *trackings.Service, consumer kafkaConsumer) error {
	if opts.swaggerPath != "" {
		if _, err := os.Stat(opts.swaggerPath); os.IsNotExist(err) {
			return fmt.Errorf("swagger file not found: %s", opts.swaggerPath)
		}
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- runHTTPServer(ctx, lis, handler, opts.shutdownTimeout)
	}()

	if consumer != nil {
		go func() {
			slog.Info("kafka consumer started", "topic", opts.ingestTopic, "group", opts.consumerGroup)
			err := consumer.Consume(ctx, svc.ApplyIngest)
			if err != nil && ctx.Err() == nil {
				slog.Error("kafka consumer stopped", "topic", opts.ingestTopic, "error", err.Error())
				if opts.ingest != nil {
					opts.ingest.stopped(err)
				}
			}
		}()
	}

	select {
	case <-ctx.Done():
		<-httpErr
		return ctx.Err()
	case err := <-httpErr:
		return err
	}
}

func runHTTPServer(ctx context.Context, lis net.Listener, handler http.Handler, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 5 * time.Second
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("HTTP server listening", "addr", lis.Addr().String())
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
