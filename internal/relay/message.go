// internal/relay/message.go
package relay

// MessageType is the kind of a relay link message
type MessageType string

const (
	MessageTypeRegister    MessageType = "register"
	MessageTypeRegistered  MessageType = "registered"
	MessageTypeRejected    MessageType = "rejected"
	MessageTypePing        MessageType = "ping"
	MessageTypePong        MessageType = "pong"
	MessageTypePrint       MessageType = "print"
	MessageTypePrinted     MessageType = "printed"
	MessageTypePrintFailed MessageType = "print_failed"
)

// Message is exchanged between the service hub and a relay agent.
// Payload travels base64 encoded inside the JSON frame.
type Message struct {
	Type      MessageType `json:"type"`
	ID        string      `json:"id,omitempty"`
	AgentKey  string      `json:"agent_key,omitempty"`
	Host      string      `json:"host,omitempty"`
	Port      int         `json:"port,omitempty"`
	TimeoutMS int64       `json:"timeout_ms,omitempty"`
	Payload   []byte      `json:"payload,omitempty"`
	Error     string      `json:"error,omitempty"`
}
