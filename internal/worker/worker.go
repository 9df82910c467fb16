// Package worker implements C6: a fixed loop that receives one pending
// connection at a time from the rendezvous channel, reads it, parses and
// resolves it, writes the response, and logs the exchange.
//
// Grounded on mu-httpd's src/server.c (server_worker_thread_run,
// server_worker_request_wait) and src/request.c (request_process).
package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/badu/httpd/internal/config"
	"github.com/badu/httpd/internal/logging"
	"github.com/badu/httpd/internal/parser"
	"github.com/badu/httpd/internal/rendezvous"
	"github.com/badu/httpd/internal/reqmsg"
	"github.com/badu/httpd/internal/resolver"
	"github.com/badu/httpd/internal/responder"
)

// Worker receives one request at a time off a shared rendezvous.Channel
// and services it to completion before receiving the next.
type Worker struct {
	ID      int
	Channel *rendezvous.Channel
	Logger  logging.LoggerWriter
	Cfg     config.Config
}

// Run loops until the channel reports shutdown. It never returns a
// non-nil error on a graceful shutdown; it exists to satisfy
// errgroup.Group's func() error signature.
func (w *Worker) Run(ctx context.Context) error {
	for {
		pending, ok := w.Channel.Receive()
		if !ok {
			return nil
		}
		w.serve(pending)
	}
}

// serve owns pending's connection for the lifetime of one exchange: it
// reads, parses, resolves, builds, writes, logs, then closes — mirroring
// mu-httpd's request_process and the cleanup-on-exit guarantee spec §4.5
// asks for ("if cancelled mid-exchange, the client socket is closed").
func (w *Worker) serve(pending *rendezvous.Pending) {
	defer pending.Conn.Close()

	raw, readErr := readRequest(pending.Conn)
	req, perr := parser.Parse(raw, config.MaxURLSize, readErr)
	req.Origin = pending.Origin

	now := time.Now()
	var resp *reqmsg.Response
	var err error
	if perr == parser.OK {
		artifact := resolver.Resolve(req, w.Cfg)
		resp, err = responder.Build(artifact, req, w.Cfg, now)
	} else {
		resp, err = responder.BuildForParseError(perr, req, w.Cfg, now)
	}
	if err != nil {
		w.Logger.LogSystemError("worker: build response", zap.Int("worker", w.ID), zap.Error(err))
		return
	}

	wire := responder.Serialize(resp)
	if _, werr := pending.Conn.Write(wire); werr != nil {
		w.Logger.LogSystemError("worker: write response", zap.Int("worker", w.ID), zap.Error(werr))
	}

	w.Logger.LogRequest(logging.RequestLogEntry{
		When:   now,
		Method: req.Method,
		Status: resp.StatusCode,
		Path:   req.URI.Path,
		Bytes:  len(resp.Body),
	})
}
