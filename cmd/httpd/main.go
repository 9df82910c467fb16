// Command httpd is the CLI entrypoint for the static-content HTTP/1.1
// server (spec §6 External Interfaces): `httpd [port]`.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/badu/httpd/internal/acceptor"
	"github.com/badu/httpd/internal/config"
	"github.com/badu/httpd/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Default()

	flags := pflag.NewFlagSet("httpd", pflag.ContinueOnError)
	flags.StringVar(&cfg.Address, "address", cfg.Address, "bind address")
	flags.StringVar(&cfg.PublicRoot, "public-root", cfg.PublicRoot, "served document root")
	flags.StringVar(&cfg.TemplateRoot, "default-root", cfg.TemplateRoot, "status/template/redirect root")
	flags.StringVar(&cfg.LogDir, "log-dir", cfg.LogDir, "request log directory")
	flags.IntVar(&cfg.MaxThreads, "max-threads", cfg.MaxThreads, "worker pool size")
	flags.IntVar(&cfg.MaxConnections, "max-connections", cfg.MaxConnections, "listen backlog (not applied to the listening socket)")
	flags.BoolVar(&cfg.StrictRoot, "strict-root", cfg.StrictRoot, "reject paths that escape the public root")
	port := flags.Int("port", cfg.Port, "listen port")

	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	cfg.Port = *port

	// The original CLI contract is a single positional port argument;
	// keep accepting it for drop-in compatibility with `httpd [port]`.
	if rest := flags.Args(); len(rest) > 0 {
		p, err := strconv.Atoi(rest[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "httpd: invalid port %q\n", rest[0])
			return 2
		}
		cfg.Port = p
	}

	if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "httpd: cannot create log directory: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "httpd: cannot initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	printBanner(logger, cfg)

	a := &acceptor.Acceptor{Cfg: cfg, Logger: logger}
	status := a.Listen(context.Background())

	logger.LogSystem("httpd: stopped", zap.String("status", status.String()))

	switch status {
	case acceptor.StatusSuccess, acceptor.StatusStopRequested:
		return 0
	default:
		fmt.Fprintln(os.Stderr, "httpd:", status.String())
		return 1
	}
}

// printBanner replaces the original's ANSI-colourized startup banner
// (out of scope per spec §1) with one structured log line through the
// same LoggerWriter every other system message goes through.
func printBanner(logger logging.LoggerWriter, cfg config.Config) {
	logger.LogSystem("httpd: listening",
		zap.String("address", cfg.Address),
		zap.Int("port", cfg.Port),
		zap.String("public_root", cfg.PublicRoot),
		zap.Int("workers", cfg.MaxThreads),
	)
}
