package dto

import (
	"time"

	"github.com/google/uuid"
)

type SaveSessionRequest struct {
	Name string     `json:"name" validate:"required"`
	Tabs []AgentTab `json:"tabs" validate:"required,min=1,dive"`
}

type SaveSessionResponse struct {
	Id uuid.UUID `json:"id"`
}

type SessionListItem struct {
	Id        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	TabCount  int        `json:"tab_count"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type SavedTabItem struct {
	TabId int    `json:"tab_id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

type ShowSessionResponse struct {
	Id        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Tabs      []SavedTabItem `json:"tabs"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt *time.Time     `json:"updated_at"`
}

type SessionSearchResponse struct {
	SessionId      uuid.UUID `json:"session_id"`
	Name           string    `json:"name"`
	Excerpt        string    `json:"excerpt"`
	RelevanceScore float64   `json:"relevance_score"`
	CreatedAt      time.Time `json:"created_at"`
}

// PublishEmbedSessionMessage is the queue payload that triggers the
// embedding job for a saved session.
type PublishEmbedSessionMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}
