// Command gateway runs the REST bridge: it authenticates clients with
// bearer tokens and forwards their requests to the core process over the
// datagram protocol.
package main

import (
	"log"
	"net/http"
	"time"

	"coincore/internal/auth"
	"coincore/internal/gateway"
	"coincore/internal/platform/config"
	"coincore/internal/transport"
)

type gatewayConfig struct {
	ListenAddr     string        `env:"GATEWAY_LISTEN_ADDR" envDefault:"localhost:8000"`
	AuthDBPath     string        `env:"GATEWAY_AUTH_DB_PATH" envDefault:"auth.db"`
	CoreSocketPath string        `env:"CORE_SOCKET_PATH" envDefault:"/tmp/coincore.sock"`
	SocketDir      string        `env:"GATEWAY_SOCKET_DIR" envDefault:""`
	CallTimeout    time.Duration `env:"GATEWAY_CALL_TIMEOUT" envDefault:"1s"`
}

func main() {
	var cfg gatewayConfig
	if err := config.ParseEnv(&cfg); err != nil {
		config.Exitf("load config: %v", err)
	}

	tokens, err := auth.Open(cfg.AuthDBPath)
	if err != nil {
		config.Exitf("open token store: %v", err)
	}
	defer func() {
		if err := tokens.Close(); err != nil {
			log.Printf("close token store: %v", err)
		}
	}()

	client := transport.NewClient(cfg.CoreSocketPath, cfg.SocketDir, cfg.CallTimeout)
	gw := gateway.New(client, tokens)

	log.Printf("listening on http://%s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, gw.Router()); err != nil {
		config.Exitf("serve: %v", err)
	}
}
