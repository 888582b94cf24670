package impl

import (
	"io"
	"log/slog"
	"time"

	"agrisetu/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(storeTimeout time.Duration) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			BcryptCost:   10,
			StoreTimeout: storeTimeout,
		},
	}
}
