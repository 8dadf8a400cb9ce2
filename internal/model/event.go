// internal/model/event.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of event
type EventType string

const (
	EventJobCompleted           EventType = "JOB_COMPLETED"
	EventJobFailed              EventType = "JOB_FAILED"
	EventPrinterConnected       EventType = "PRINTER_CONNECTED"
	EventPrinterDisconnected    EventType = "PRINTER_DISCONNECTED"
	EventRelayAgentConnected    EventType = "RELAY_AGENT_CONNECTED"
	EventRelayAgentDisconnected EventType = "RELAY_AGENT_DISCONNECTED"
)

// Event represents something that happened in the service
type Event struct {
	ID        uuid.UUID  `json:"id"`
	EventType EventType  `json:"event_type"`
	Data      JSONObject `json:"data"`
	Timestamp time.Time  `json:"timestamp"`
	Source    string     `json:"source"`
	Severity  string     `json:"severity"` // INFO, WARNING, ERROR
}

// NewEvent stamps a new event
func NewEvent(eventType EventType, source, severity string, data JSONObject) *Event {
	return &Event{
		ID:        uuid.New(),
		EventType: eventType,
		Data:      data,
		Timestamp: time.Now(),
		Source:    source,
		Severity:  severity,
	}
}
