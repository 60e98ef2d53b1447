package config

import (
	"context"
	"strings"

	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
)

// PrintConfig logs the effective configuration. Secrets are masked.
func PrintConfig(ctx context.Context, cfg *Config, log logger.Logger) {
	ctx = wrap.WithAction(ctx, "print_config")

	log.Info(ctx, "configuration loaded",
		"mode", cfg.Mode,
		"http_port", cfg.HTTP.Port,
		"log_level", cfg.Log.Level,
		"storage_driver", cfg.Storage.Driver,
		"location_store", cfg.Storage.RecordStore(),
		"database_dsn", maskDSN(cfg.Database),
		"sqlite_path", cfg.SQLite.Path,
		"redis_addr", cfg.Redis.Addr,
		"dynamodb_table", cfg.DynamoDB.Table,
		"geocoder_provider", cfg.Geocoder.Provider,
		"geocoder_base_url", cfg.Geocoder.BaseURL,
		"geocoder_api_key", mask(cfg.Geocoder.APIKey),
		"geocoder_timeout", cfg.Geocoder.Timeout.String(),
		"events_driver", cfg.Events.Driver,
		"websocket_enabled", cfg.WebSocket.Enabled,
		"jwt_secret", mask(cfg.Auth.JWTSecret),
	)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return strings.Repeat("*", 8)
}

func maskDSN(c DatabaseConfig) string {
	c.Password = mask(c.Password)
	return c.GetDSN()
}
