package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNoOpPublisher_Publish(t *testing.T) {
	publisher := &NoOpPublisher{}

	// Should not panic
	assert.NotPanics(t, func() {
		event := TransactionCreated(map[string]interface{}{"id": float64(1)})
		publisher.Publish(uuid.New(), event)
	})
}

func TestNoOpPublisher_Implements_EventPublisher(t *testing.T) {
	// Compile-time check that NoOpPublisher implements EventPublisher
	var _ EventPublisher = (*NoOpPublisher)(nil)
}
