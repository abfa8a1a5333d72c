package events

import (
	"time"

	"github.com/segmentio/kafka-go"
)

type Option func(*kafka.Writer)

func BatchTimeout(d time.Duration) Option {
	return func(w *kafka.Writer) {
		w.BatchTimeout = d
	}
}

// Sync makes Publish block until the broker acknowledges the message.
func Sync() Option {
	return func(w *kafka.Writer) {
		w.Async = false
	}
}
