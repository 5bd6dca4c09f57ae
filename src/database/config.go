package database

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Driver       string `envconfig:"DB_DRIVER" default:"sqlite"` // "sqlite" or "postgres"
	DatabaseURL  string `envconfig:"DATABASE_URL" default:"file:crashreporter.db?cache=shared"`
	GormLogLevel int    `envconfig:"GORM_LOG_LEVEL" default:"2"`
}

func GetConfig() Config {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		panic(fmt.Errorf("error processing env config: %w", err))
	}
	return config
}
