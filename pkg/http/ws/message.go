package ws

import "encoding/json"

// MessageType constants for WebSocket protocol. Session events are sent with
// their event name (START_GAME, QUESTION_LOOP, ...) as the type.
const (
	// Client -> Server
	TypeJoinSession  = "join_session"
	TypeLeaveSession = "leave_session"
	TypeStartSession = "start_session"
	TypeSubmitAnswer = "submit_answer"
	TypePing         = "ping"

	// Server -> Client
	TypeSnapshot = "snapshot"
	TypeAck      = "ack"
	TypeError    = "error"
	TypePong     = "pong"
)

// Message wraps all WebSocket payloads with type and optional request ID.
type Message struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	RequestID string          `json:"request_id,omitempty"`
}

// NewMessage marshals payload into a Message of the given type.
func NewMessage(msgType string, payload any) (Message, error) {
	msg := Message{Type: msgType}
	if payload == nil {
		return msg, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	msg.Payload = raw
	return msg, nil
}

// Client Messages (incoming)

type SubmitAnswerPayload struct {
	AnswerID int64 `json:"answer_id"`
}

// Server Messages (outgoing)

type AckPayload struct {
	Action string `json:"action"`
	Result any    `json:"result,omitempty"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
