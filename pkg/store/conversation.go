package store

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"

	// maxTurns caps how much history one device accumulates. Readers
	// take the tail window they need; this only bounds memory.
	maxTurns = 24
)

// Turn is one utterance in a device's conversation with the assistant.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Conversation is the rolling chat state for one device. It lives in
// memory only: losing it degrades follow-up answers, never correctness.
type Conversation struct {
	DeviceID  string `json:"device_id"`
	Turns     []Turn `json:"turns"`
	LastQuery string `json:"last_query"`
}

func NewConversation(deviceID string) *Conversation {
	return &Conversation{DeviceID: deviceID}
}

// Append records a turn, trimming the oldest once past the cap.
func (c *Conversation) Append(role, text string) {
	c.Turns = append(c.Turns, Turn{Role: role, Text: text})
	if len(c.Turns) > maxTurns {
		c.Turns = c.Turns[len(c.Turns)-maxTurns:]
	}
	if role == RoleUser {
		c.LastQuery = text
	}
}

// Window returns the last n turns (all of them when fewer exist).
func (c *Conversation) Window(n int) []Turn {
	if n <= 0 || len(c.Turns) <= n {
		return c.Turns
	}
	return c.Turns[len(c.Turns)-n:]
}
