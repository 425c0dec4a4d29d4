// Package queue defines message payloads exchanged over the message broker
// together with the AMQP publisher and consumer that carry them.
package queue

import (
	"fmt"
	"time"
)

// UserRegisteredQueue is the default queue name for registration events.
const UserRegisteredQueue = "user.registered"

// UserRegisteredEvent is published after a user registers.  It carries
// enough information for a downstream notifier to post a message without
// querying the primary database.
type UserRegisteredEvent struct {
	UserID     string    `json:"user_id"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	FullName   string    `json:"full_name"`
	CreateDate time.Time `json:"create_date"`
}

// Message renders the event as the human-readable chat message posted to
// the notification channel.
func (e UserRegisteredEvent) Message() string {
	phone := e.Phone
	if phone == "" {
		phone = "-"
	}
	return fmt.Sprintf("🎉 **New member registered!**\n**Email:** %s\n**Phone:** %s\n**Name:** %s\n**Time:** %s",
		e.Email, phone, e.FullName, e.CreateDate.UTC().Format("2006-01-02 15:04:05"))
}
