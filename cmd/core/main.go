// Command core runs the coincore dispatch loop: it exclusively owns the
// ledger store and answers protocol requests on the well-known socket, one
// at a time, until interrupted.
package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coincore/internal/core"
	"coincore/internal/ledger"
	"coincore/internal/ledger/storage/sqlite"
	"coincore/internal/platform/config"
	"coincore/internal/transport"
)

type coreConfig struct {
	SocketPath   string        `env:"CORE_SOCKET_PATH" envDefault:"/tmp/coincore.sock"`
	DBPath       string        `env:"CORE_DB_PATH" envDefault:"coincore.db"`
	PollInterval time.Duration `env:"CORE_POLL_INTERVAL" envDefault:"1s"`
}

func main() {
	var cfg coreConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		config.Exitf("open ledger store: %v", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close ledger store: %v", err)
		}
	}()

	// The seed account is created once; later starts find it in place.
	if _, err := store.SaveAccount(context.Background(), ledger.SeedAccount()); err != nil {
		if !errors.Is(err, ledger.ErrAccountAlreadyExists) {
			config.Exitf("create seed account: %v", err)
		}
	} else {
		log.Printf("created seed account %s", ledger.SeedAccountID())
	}

	handler := core.New(ledger.NewService(store))
	server := transport.NewServer(cfg.SocketPath, cfg.PollInterval, handler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Serve(ctx); err != nil {
		config.Exitf("serve: %v", err)
	}
	log.Printf("shutting down")
}
