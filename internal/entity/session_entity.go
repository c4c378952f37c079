package entity

import (
	"time"

	"github.com/google/uuid"
)

// SavedTab is one tab inside a session snapshot. Text keeps only a
// bounded excerpt of the page, enough for embeddings and recall.
type SavedTab struct {
	TabId int    `json:"tab_id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Text  string `json:"text"`
}

// TabSession is a named snapshot of a workspace the device saved for
// later ("keep my headphone research").
type TabSession struct {
	Id        uuid.UUID
	DeviceId  uuid.UUID
	Name      string
	Tabs      []SavedTab
	TabCount  int
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// SessionEmbedding is one embedded chunk of a session's content,
// used for semantic search across saved sessions.
type SessionEmbedding struct {
	Id             uuid.UUID
	SessionId      uuid.UUID
	Document       string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
}
