package contract

import (
	"context"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredSessionEmbedding wraps SessionEmbedding with its similarity score.
type ScoredSessionEmbedding struct {
	Embedding  *entity.SessionEmbedding
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type TabSessionRepository interface {
	Create(ctx context.Context, session *entity.TabSession) error
	Update(ctx context.Context, session *entity.TabSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByDeviceIdUnscoped(ctx context.Context, deviceId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TabSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TabSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type SessionEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.SessionEmbedding) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	DeleteAllByDeviceIdUnscoped(ctx context.Context, deviceId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionEmbedding, error)
	// SearchSimilarWithScore runs vector search over one device's saved
	// sessions, dropping hits below the threshold.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, deviceId uuid.UUID, threshold float64) ([]*ScoredSessionEmbedding, error)
}
