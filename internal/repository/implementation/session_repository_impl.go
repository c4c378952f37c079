package implementation

import (
	"context"
	"errors"

	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/mapper"
	"tabsensei-be/internal/model"
	"tabsensei-be/internal/repository/contract"
	"tabsensei-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type TabSessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewTabSessionRepository(db *gorm.DB) contract.TabSessionRepository {
	return &TabSessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *TabSessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *TabSessionRepositoryImpl) Create(ctx context.Context, session *entity.TabSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *TabSessionRepositoryImpl) Update(ctx context.Context, session *entity.TabSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *TabSessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TabSession{}, id).Error
}

func (r *TabSessionRepositoryImpl) DeleteAllByDeviceIdUnscoped(ctx context.Context, deviceId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("device_id = ?", deviceId).Delete(&model.TabSession{}).Error
}

func (r *TabSessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.TabSession, error) {
	var m model.TabSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *TabSessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.TabSession, error) {
	var models []*model.TabSession
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *TabSessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.TabSession{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

type SessionEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionEmbeddingMapper
}

func NewSessionEmbeddingRepository(db *gorm.DB) contract.SessionEmbeddingRepository {
	return &SessionEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionEmbeddingMapper(),
	}
}

func (r *SessionEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.SessionEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}

	models := make([]*model.SessionEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *SessionEmbeddingRepositoryImpl) DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionId).Delete(&model.SessionEmbedding{}).Error
}

func (r *SessionEmbeddingRepositoryImpl) DeleteAllByDeviceIdUnscoped(ctx context.Context, deviceId uuid.UUID) error {
	// Subquery to find session IDs for the device
	subQuery := r.db.Table("tab_sessions").Select("id").Where("device_id = ?", deviceId)
	return r.db.WithContext(ctx).Unscoped().Where("session_id IN (?)", subQuery).Delete(&model.SessionEmbedding{}).Error
}

func (r *SessionEmbeddingRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionEmbedding, error) {
	var models []*model.SessionEmbedding
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

// SearchSimilarWithScore joins tab_sessions to scope results to one
// device. Cosine distance in pgvector is 1 - cosine_similarity, so
// similarity = 1 - (embedding_value <=> query_vector).
func (r *SessionEmbeddingRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, deviceId uuid.UUID, threshold float64) ([]*contract.ScoredSessionEmbedding, error) {
	if limit <= 0 {
		limit = 5
	}

	type result struct {
		model.SessionEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("session_embeddings").
		Select("session_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN tab_sessions ON tab_sessions.id = session_embeddings.session_id").
		Where("tab_sessions.device_id = ?", deviceId).
		Where("session_embeddings.deleted_at IS NULL").
		Where("tab_sessions.deleted_at IS NULL").
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, threshold).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredSessionEmbedding, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredSessionEmbedding{
			Embedding:  r.mapper.ToEntity(&res.SessionEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
