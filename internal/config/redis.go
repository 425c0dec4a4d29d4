package config

// This file defines the Redis client constructor.  Redis is one of the
// delivery channels for registration notifications.  Unlike the database,
// an unreachable Redis must not stop the API from starting: the client is
// still returned and publishing failures are logged by the notifier.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a Redis client from the Redis settings and
// pings it with a short timeout.  The ping error is returned alongside the
// client so callers can log it and carry on.
func NewRedisClient(r Redis) (*redis.Client, error) {
	var tlsConf *tls.Config
	if r.TLS {
		tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(&redis.Options{
		Addr:      r.Addr,
		Password:  r.Password,
		DB:        r.DB,
		TLSConfig: tlsConf,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return client, client.Ping(ctx).Err()
}
