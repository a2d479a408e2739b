package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent_CombinedType(t *testing.T) {
	event := NewEvent(EventTypeCreated, EntityTypeTransaction, map[string]string{"id": "abc"})

	assert.Equal(t, "transaction.created", event.Type)
	assert.Equal(t, EntityTypeTransaction, event.Entity)
	assert.WithinDuration(t, time.Now().UTC(), event.Timestamp, time.Second)
}

func TestEvent_ToJSON(t *testing.T) {
	event := NewEvent(EventTypeUpdated, EntityTypeRecurring, map[string]string{"id": "abc"})

	data, err := event.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "recurring.updated", decoded["type"])
	assert.Equal(t, "recurring", decoded["entity"])

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "abc", payload["id"])
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{"transaction created", TransactionCreated(nil), "transaction.created"},
		{"transaction deleted", TransactionDeleted(nil), "transaction.deleted"},
		{"recurring created", RecurringCreated(nil), "recurring.created"},
		{"recurring updated", RecurringUpdated(nil), "recurring.updated"},
		{"recurring deleted", RecurringDeleted(nil), "recurring.deleted"},
		{"debt updated", DebtUpdated(nil), "debt.updated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Type)
		})
	}
}
