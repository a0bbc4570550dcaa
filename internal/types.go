package internal

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "ai"
)

type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionState is Idle between submissions and Processing while a reply is computed.
type SessionState string

const (
	StateIdle       SessionState = "idle"
	StateProcessing SessionState = "processing"
)

// Session is the transcript of one browser session. It is passed into and
// returned from every chat step; stores persist it by ID.
type Session struct {
	ID        string       `json:"id"`
	State     SessionState `json:"state"`
	Messages  []Message    `json:"messages"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// NewSession returns an empty idle session.
func NewSession(id string) Session {
	return Session{ID: id, State: StateIdle, Messages: make([]Message, 0, 16)}
}

type ChatHistory struct {
	Messages []Message `json:"messages"`
}

type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type SendMessageResponse struct {
	Reply Message `json:"reply"`
	Model string  `json:"model"`
}

// --- Repair dataset ---

// Record is one row of the repair/towing dataset.
type Record struct {
	ServiceDescription string `json:"service_description"`
	ServiceType        string `json:"service_type"`
	VehicleType        string `json:"vehicle_type"`
	MakeAndModel       string `json:"make_and_model"`
}

// LogEntry is one row of the interaction log.
type LogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	UserInput  string    `json:"user_input"`
	AIResponse string    `json:"ai_response"`
}
