package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// RELAY_ADDR is the websocket URL of a running relay, e.g. ws://localhost:8080/
	RelayAddr string `envconfig:"RELAY_ADDR"`
	// RELAY_GRPC_ADDR enables the health checks when set
	GrpcAddr string `envconfig:"RELAY_GRPC_ADDR"`
	// E2E_DEBUG_JSON dumps every frame exchanged
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
