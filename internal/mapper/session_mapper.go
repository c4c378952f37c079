package mapper

import (
	"encoding/json"
	"time"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.TabSession) *entity.TabSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var tabs []entity.SavedTab
	if len(s.Tabs) > 0 {
		// Malformed rows degrade to an empty tab list rather than failing.
		_ = json.Unmarshal(s.Tabs, &tabs)
	}

	return &entity.TabSession{
		Id:        s.Id,
		DeviceId:  s.DeviceId,
		Name:      s.Name,
		Tabs:      tabs,
		TabCount:  s.TabCount,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: s.DeletedAt.Valid,
	}
}

func (m *SessionMapper) ToModel(s *entity.TabSession) *model.TabSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	tabsJSON, err := json.Marshal(s.Tabs)
	if err != nil {
		tabsJSON = []byte("[]")
	}

	return &model.TabSession{
		Id:        s.Id,
		DeviceId:  s.DeviceId,
		Name:      s.Name,
		Tabs:      datatypes.JSON(tabsJSON),
		TabCount:  s.TabCount,
		CreatedAt: s.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *SessionMapper) ToEntities(sessions []*model.TabSession) []*entity.TabSession {
	entities := make([]*entity.TabSession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

type SessionEmbeddingMapper struct{}

func NewSessionEmbeddingMapper() *SessionEmbeddingMapper {
	return &SessionEmbeddingMapper{}
}

func (m *SessionEmbeddingMapper) ToEntity(e *model.SessionEmbedding) *entity.SessionEmbedding {
	if e == nil {
		return nil
	}

	return &entity.SessionEmbedding{
		Id:             e.Id,
		SessionId:      e.SessionId,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SessionEmbeddingMapper) ToModel(e *entity.SessionEmbedding) *model.SessionEmbedding {
	if e == nil {
		return nil
	}

	return &model.SessionEmbedding{
		Id:             e.Id,
		SessionId:      e.SessionId,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SessionEmbeddingMapper) ToEntities(embeddings []*model.SessionEmbedding) []*entity.SessionEmbedding {
	entities := make([]*entity.SessionEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}
