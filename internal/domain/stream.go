package domain

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamScenarioGenerate = "stream:scenario:generate"
	StreamScenarioDone     = "stream:scenario:done"
)

// ScenarioRequestEvent - входящее событие на генерацию сценария.
// Request содержит тело запроса генерации в том же виде, что принимает HTTP API.
type ScenarioRequestEvent struct {
	RequestID uuid.UUID       `json:"request_id"`
	Request   json.RawMessage `json:"request"`
}

// ScenarioDoneEvent - результат генерации
type ScenarioDoneEvent struct {
	RequestID uuid.UUID        `json:"request_id"`
	Summary   *ScenarioSummary `json:"summary,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// StreamMessage - сообщение из Redis Stream, Data - JSON из поля "data"
type StreamMessage struct {
	ID   string
	Data string
}
