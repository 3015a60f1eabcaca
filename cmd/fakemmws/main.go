// Command fakemmws serves an in-memory imitation of the Micetro REST API
// for local experiments with mmwsctl or the client library.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jroosing/mmws/internal/fakeapi"
	"github.com/jroosing/mmws/internal/logging"
)

func main() {
	var (
		addr     = flag.String("addr", "127.0.0.1:8080", "listen address")
		username = flag.String("username", "admin", "user name accepted by basic auth (empty disables auth)")
		password = flag.String("password", "admin", "password accepted by basic auth")
		seed     = flag.Bool("seed", false, "create a few sample objects at startup")
		jsonLogs = flag.Bool("json-logs", false, "Enable JSON structured logging")
		debug    = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	cfg := logging.Config{Level: "INFO", Format: "text"}
	if *jsonLogs {
		cfg.Format = "json"
	}
	if *debug {
		cfg.Level = "DEBUG"
	}
	logger := logging.Configure(cfg)

	srv := fakeapi.New(fakeapi.Config{Addr: *addr, Username: *username, Password: *password}, logger)
	if *seed {
		if err := fakeapi.Seed(srv.Store()); err != nil {
			fmt.Fprintf(os.Stderr, "failed to seed: %v\n", err)
			os.Exit(1)
		}
		logger.Info("sample objects created", "objects", srv.Store().Count())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}
