package notify

import (
	"context"

	"github.com/iqx/iqx-backend/internal/queue"
)

// AMQP hands registration events to RabbitMQ; cmd/notify-relay forwards
// them to the chat channel.
type AMQP struct {
	pub *queue.Publisher
}

func NewAMQP(url, queueName string) *AMQP {
	return &AMQP{pub: queue.NewPublisher(url, queueName)}
}

func (a *AMQP) Notify(ctx context.Context, ev queue.UserRegisteredEvent) error {
	return a.pub.Publish(ctx, ev)
}
