package dto

import (
	"encoding/json"

	"github.com/JokoCodes/service-scheduler/internal/domains/notification/model"
	"github.com/JokoCodes/service-scheduler/shared/constant"
	"github.com/JokoCodes/service-scheduler/shared/timezone"
)

// OutboxMessage is the wire shape published to the broker. The payload is
// forwarded verbatim instead of re-marshalled so consumers see exactly what
// the producing transaction recorded.
type OutboxMessage struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Audience  string          `json:"audience"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt string          `json:"created_at"`
}

func (m *OutboxMessage) FromModel(row model.Outbox) {
	m.ID = row.ID
	m.EventType = row.EventType
	m.Audience = row.Audience
	m.Payload = json.RawMessage(row.Payload)
	m.CreatedAt = timezone.Format(row.CreatedAt, constant.DateFormat)
}
