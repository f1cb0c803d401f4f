package preferences

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-attendance-dashboard/pkg/cache"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/config"
	"github.com/noah-isme/sma-attendance-dashboard/pkg/database"
)

// Open builds the backend selected by configuration. The returned closer releases
// any connection it opened.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, func() error, error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Preferences.Backend {
	case config.PreferencesMemory:
		return NewMemoryBackend(), noop, nil
	case config.PreferencesFile, "":
		b, err := NewFileBackend(cfg.Preferences.Dir)
		if err != nil {
			return nil, noop, err
		}
		return b, noop, nil
	case config.PreferencesRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis, 0)
		if err != nil {
			return nil, noop, err
		}
		logger.Debug("preferences on redis", zap.String("addr", cache.Addr(cfg.Redis)))
		return NewRedisBackend(client, cfg.Preferences.KeyPrefix), client.Close, nil
	case config.PreferencesPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		b := NewPostgresBackend(db)
		if err := b.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		logger.Debug("preferences on postgres", zap.String("db", cfg.Database.Name))
		return b, db.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown preferences backend %q", cfg.Preferences.Backend)
	}
}
