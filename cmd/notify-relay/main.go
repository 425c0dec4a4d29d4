// Command notify-relay drains registration events from RabbitMQ and posts
// them to Discord.  It pairs with NOTIFY_DRIVER=amqp on the API server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iqx/iqx-backend/internal/config"
	"github.com/iqx/iqx-backend/internal/notify"
	"github.com/iqx/iqx-backend/internal/queue"
)

func main() {
	cfg := config.MustLoad()
	log := config.NewLogger(cfg.Env, os.Stdout)

	if err := run(cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("relay stopped", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	if cfg.Discord.BotToken == "" || cfg.Discord.ChannelID == "" {
		return errors.New("DISCORD_BOT_TOKEN and DISCORD_NOTIFICATION_CHANNEL_ID are required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := notify.NewDiscord(cfg.Discord.BotToken, cfg.Discord.ChannelID, cfg.Discord.ConnectTimeout, log)
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()
	go d.Start(ctx)

	log.Info("relaying", slog.String("queue", cfg.Notify.Queue))
	return queue.Consume(ctx, cfg.RabbitMQ.URL, cfg.Notify.Queue, relay(d, cfg), log)
}

// relay decodes one event and forwards it.  Undecodable bodies are
// rejected; delivery failures are rejected too and show up in the logs.
func relay(n notify.Notifier, cfg config.Config) queue.Handler {
	return func(ctx context.Context, body []byte) error {
		var ev queue.UserRegisteredEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("decode event: %w", err)
		}
		ctx, cancel := context.WithTimeout(ctx, cfg.Notify.Timeout)
		defer cancel()
		return n.Notify(ctx, ev)
	}
}
