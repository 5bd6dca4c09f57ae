package server

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port            string `envconfig:"PORT" default:"9898"`
	IngestTokenHash string `envconfig:"INGEST_TOKEN_HASH" default:""` // bcrypt hash; empty disables auth
	ForwardURL      string `envconfig:"FORWARD_URL" default:""`       // optional downstream webhook
}

func GetConfig() *Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return &config
}
