package websocket

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/madmonkey007/EchoListenultra/internal/playback"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	// client to server
	MessageTypeLoadSession MessageType = "load_session"
	MessageTypeTick        MessageType = "tick"
	MessageTypeJump        MessageType = "jump"
	MessageTypeSeek        MessageType = "seek"
	MessageTypeLoopMode    MessageType = "loop_mode"
	MessageTypeCycleSpeed  MessageType = "cycle_speed"
	MessageTypeSegmentEnd  MessageType = "segment_end"

	// server to client
	MessageTypeSyncState MessageType = "sync_state"
	MessageTypeError     MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// LoadSessionMessage asks the player to switch to a session
type LoadSessionMessage struct {
	BaseMessage
	SessionID string `json:"session_id"`
}

// TickMessage reports the client's playback position in seconds
type TickMessage struct {
	BaseMessage
	CurrentTime float64 `json:"current_time"`
}

// JumpMessage asks for a jump to a segment by index
type JumpMessage struct {
	BaseMessage
	SegmentIndex int `json:"segment_index"`
}

// SeekMessage asks for an absolute seek by fraction of total duration
type SeekMessage struct {
	BaseMessage
	Fraction float64 `json:"fraction"`
}

// LoopModeMessage sets the loop behavior at segment boundaries
type LoopModeMessage struct {
	BaseMessage
	Mode string `json:"mode"`
}

// SyncStateMessage is the server's view of the player after a command
type SyncStateMessage struct {
	BaseMessage
	SessionID     string                `json:"session_id"`
	ActiveSegment int                   `json:"active_segment"`
	ActiveToken   int                   `json:"active_token"`
	TokenStates   []playback.TokenState `json:"token_states,omitempty"`
	Speed         float64               `json:"speed"`
	LoopMode      string                `json:"loop_mode"`
	Playing       bool                  `json:"playing"`
	// SeekTo, when present, tells the client player to reposition.
	SeekTo *float64 `json:"seek_to,omitempty"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// ParseMessage decodes an incoming text frame into its typed message.
func ParseMessage(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}

	switch base.Type {
	case MessageTypeLoadSession:
		var msg LoadSessionMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid load_session message: %w", err)
		}
		if msg.SessionID == "" {
			return nil, fmt.Errorf("session_id is required")
		}
		return &msg, nil

	case MessageTypeTick:
		var msg TickMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid tick message: %w", err)
		}
		if msg.CurrentTime < 0 {
			return nil, fmt.Errorf("current_time must not be negative")
		}
		return &msg, nil

	case MessageTypeJump:
		var msg JumpMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid jump message: %w", err)
		}
		return &msg, nil

	case MessageTypeSeek:
		var msg SeekMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid seek message: %w", err)
		}
		return &msg, nil

	case MessageTypeLoopMode:
		var msg LoopModeMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid loop_mode message: %w", err)
		}
		switch playback.LoopMode(msg.Mode) {
		case playback.LoopAdvance, playback.LoopSingle, playback.LoopNone:
		default:
			return nil, fmt.Errorf("unknown loop mode %q", msg.Mode)
		}
		return &msg, nil

	case MessageTypeCycleSpeed, MessageTypeSegmentEnd:
		return &base, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{
			Type:      MessageTypeError,
			Timestamp: time.Now().Format(time.RFC3339),
		},
		Code:    code,
		Message: message,
	}
}
