package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envOverrides は設定ファイルの値を上書きする環境変数です。未設定の項目は上書きしません。
type envOverrides struct {
	ListenAddr   string `env:"PROMOTION_LISTEN_ADDR"`
	MetricsAddr  string `env:"PROMOTION_METRICS_ADDR"`
	DBHost       string `env:"PROMOTION_DB_HOST"`
	DBPort       int    `env:"PROMOTION_DB_PORT"`
	DBUser       string `env:"PROMOTION_DB_USER"`
	DBPassword   string `env:"PROMOTION_DB_PASSWORD"`
	DBName       string `env:"PROMOTION_DB_NAME"`
	DBSSLMode    string `env:"PROMOTION_DB_SSL_MODE"`
	StatutesPath string `env:"PROMOTION_STATUTES_PATH"`
	OTelEndpoint string `env:"PROMOTION_OTEL_ENDPOINT"`
}

// ParseEnv は環境変数を target に読み込みます。
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if err := ParseEnv(&o); err != nil {
		return err
	}

	setString(&c.Server.ListenAddr, o.ListenAddr)
	setString(&c.Server.MetricsAddr, o.MetricsAddr)
	setString(&c.Database.Host, o.DBHost)
	if o.DBPort != 0 {
		c.Database.Port = o.DBPort
	}
	setString(&c.Database.User, o.DBUser)
	setString(&c.Database.Password, o.DBPassword)
	setString(&c.Database.Name, o.DBName)
	setString(&c.Database.SSLMode, o.DBSSLMode)
	setString(&c.Promotion.StatutesPath, o.StatutesPath)
	setString(&c.Telemetry.OTelEndpoint, o.OTelEndpoint)
	return nil
}

func setString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}
