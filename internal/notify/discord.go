package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/iqx/iqx-backend/internal/queue"
)

// ErrDiscordNotReady is returned when the gateway session did not become
// ready within the connect timeout.
var ErrDiscordNotReady = errors.New("discord session not ready")

// Discord posts registration messages to a Discord channel through a bot
// session.  The session is opened by Start, outside of any request; Notify
// only waits, bounded by the connect timeout, for the ready signal.
type Discord struct {
	session        *discordgo.Session
	channelID      string
	connectTimeout time.Duration
	log            *slog.Logger

	ready     chan struct{}
	readyOnce sync.Once
}

// NewDiscord builds the client handle.  It does not connect.
func NewDiscord(botToken, channelID string, connectTimeout time.Duration, log *slog.Logger) (*Discord, error) {
	s, err := discordgo.New("Bot " + botToken)
	if err != nil {
		return nil, fmt.Errorf("discord: new session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	if connectTimeout <= 0 {
		connectTimeout = 10 * time.Second
	}
	d := &Discord{
		session:        s,
		channelID:      channelID,
		connectTimeout: connectTimeout,
		log:            log.With(slog.String("op", "notify.Discord")),
		ready:          make(chan struct{}),
	}
	s.AddHandlerOnce(func(_ *discordgo.Session, r *discordgo.Ready) {
		if r.User != nil {
			d.log.Info("discord session ready", slog.String("user", r.User.Username))
		}
		d.markReady()
	})
	return d, nil
}

// Start opens the gateway session, retrying with exponential backoff until
// it succeeds or ctx is done.  Run it on its own goroutine at startup.
func (d *Discord) Start(ctx context.Context) {
	backoff := time.Second
	for {
		err := d.session.Open()
		if err == nil || errors.Is(err, discordgo.ErrWSAlreadyOpen) {
			return
		}
		d.log.Warn("discord connect failed", slog.Any("error", err), slog.Duration("retry_in", backoff))
		t := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-t.C:
		}
		if backoff < time.Minute {
			backoff *= 2
		}
	}
}

// Notify posts ev.Message() to the configured channel.
func (d *Discord) Notify(ctx context.Context, ev queue.UserRegisteredEvent) error {
	t := time.NewTimer(d.connectTimeout)
	defer t.Stop()
	select {
	case <-d.ready:
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return ErrDiscordNotReady
	}

	if _, err := d.session.ChannelMessageSend(d.channelID, ev.Message()); err != nil {
		return fmt.Errorf("discord: send message: %w", err)
	}
	return nil
}

// Close shuts the gateway session down.
func (d *Discord) Close() error {
	return d.session.Close()
}

func (d *Discord) markReady() {
	d.readyOnce.Do(func() { close(d.ready) })
}
