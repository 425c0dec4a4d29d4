package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iqx/iqx-backend/internal/config"
)

// New builds the notifier selected by NOTIFY_DRIVER.  Drivers that own a
// connection are started here and released by the returned close func.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (Notifier, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Notify.Driver {
	case config.NotifyDiscord:
		d, err := NewDiscord(cfg.Discord.BotToken, cfg.Discord.ChannelID, cfg.Discord.ConnectTimeout, log)
		if err != nil {
			return nil, nil, err
		}
		go d.Start(ctx)
		return d, d.Close, nil
	case config.NotifyAMQP:
		return NewAMQP(cfg.RabbitMQ.URL, cfg.Notify.Queue), noop, nil
	case config.NotifyRedis:
		client, err := config.NewRedisClient(cfg.Redis)
		if err != nil {
			// Publishing retries on every event; a cold Redis only costs notifications.
			log.Warn("redis not reachable at startup", slog.String("addr", cfg.Redis.Addr), slog.Any("error", err))
		}
		return NewRedis(client, cfg.Notify.RedisChannel), client.Close, nil
	case config.NotifyLog, "":
		return NewLog(log), noop, nil
	default:
		return nil, nil, fmt.Errorf("notify: unknown driver %q", cfg.Notify.Driver)
	}
}
