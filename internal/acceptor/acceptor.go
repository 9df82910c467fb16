// Package acceptor implements C7: the listen/accept loop, worker pool
// startup, and signal-driven graceful shutdown.
//
// Grounded on mu-httpd's src/server.c (server_listen,
// server_connection_wait, server_force_stop) for the accept-loop and
// shutdown shape, and on badu-http/src/http/server.go's Serve loop for
// the Go idiom of wrapping it (temporary-error handling, a done signal
// checked whenever Accept fails). Worker-goroutine supervision uses
// golang.org/x/sync/errgroup (SPEC_FULL.md's ambient-stack expansion).
package acceptor

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/badu/httpd/internal/config"
	"github.com/badu/httpd/internal/logging"
	"github.com/badu/httpd/internal/rendezvous"
	"github.com/badu/httpd/internal/worker"
)

// Acceptor owns the listening socket and the worker pool fed from it.
type Acceptor struct {
	Cfg    config.Config
	Logger logging.LoggerWriter
}

// Listen binds, spawns Cfg.MaxThreads workers, and runs the accept loop
// until a SIGINT, an accept error or the cancellation of ctx ends it,
// returning the terminal Status. It always closes the listening socket,
// then waits for the workers to drain for at most config.ShutdownGrace;
// past that it returns without waiting further (spec §4.6, §5 "every
// in-flight response completes or is abandoned cleanly").
func (a *Acceptor) Listen(ctx context.Context) Status {
	addr := fmt.Sprintf("%s:%d", a.Cfg.Address, a.Cfg.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		a.Logger.LogSystemError("acceptor: listen", zap.String("addr", addr), zap.Error(err))
		return StatusFailCreateSocket
	}
	defer ln.Close()

	a.Logger.LogSystem("acceptor: listening", zap.String("addr", ln.Addr().String()), zap.Int("workers", a.Cfg.MaxThreads))

	done := make(chan struct{})
	channel := rendezvous.New(done)

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	g, gctx := errgroup.WithContext(workerCtx)
	for i := 0; i < a.Cfg.MaxThreads; i++ {
		w := &worker.Worker{ID: i, Channel: channel, Logger: a.Logger, Cfg: a.Cfg}
		g.Go(func() error { return w.Run(gctx) })
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	defer signal.Stop(sigCh)

	acceptErrCh := make(chan error, 1)
	go a.acceptLoop(ln, channel, done, acceptErrCh)

	status := StatusSuccess
	select {
	case <-sigCh:
		status = StatusStopRequested
		a.Logger.LogSystem("acceptor: shutdown requested")
	case err := <-acceptErrCh:
		if err != nil {
			status = StatusFailAcceptClient
			a.Logger.LogSystemError("acceptor: accept", zap.Error(err))
		}
	case <-ctx.Done():
		status = StatusStopRequested
	}

	// Broadcast shutdown: every blocked Post/Receive on the channel
	// wakes and returns (spec §5's "broadcast on both conditions").
	close(done)
	ln.Close()
	cancelWorkers()

	waitCh := make(chan error, 1)
	go func() { waitCh <- g.Wait() }()
	select {
	case <-waitCh:
	case <-time.After(config.ShutdownGrace):
		a.Logger.LogSystem("acceptor: shutdown grace period elapsed")
	}

	return status
}

func (a *Acceptor) acceptLoop(ln net.Listener, channel *rendezvous.Channel, done <-chan struct{}, errCh chan<- error) {
	var tempDelay time.Duration
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-done:
				errCh <- nil
				return
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				if tempDelay == 0 {
					tempDelay = 5 * time.Millisecond
				} else {
					tempDelay *= 2
				}
				if max := time.Second; tempDelay > max {
					tempDelay = max
				}
				time.Sleep(tempDelay)
				continue
			}
			errCh <- err
			return
		}
		tempDelay = 0

		pending := &rendezvous.Pending{Conn: conn, Origin: conn.RemoteAddr().String()}
		if !channel.Post(pending) {
			conn.Close()
			errCh <- nil
			return
		}
	}
}
