// FILE: internal/service/session_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/repository/specification"
	"tabsensei-be/internal/repository/unitofwork"
	"tabsensei-be/pkg/embedding"
	"tabsensei-be/pkg/events"
	pktNats "tabsensei-be/pkg/nats"

	"github.com/google/uuid"
)

// semanticSearchThreshold drops vector hits with similarity below it.
// 0.35 is balanced for recall on short queries.
const semanticSearchThreshold = 0.35

const semanticSearchLimit = 10

// excerptRunes bounds the chunk preview returned with search hits.
const excerptRunes = 160

type ISessionService interface {
	Save(ctx context.Context, deviceId uuid.UUID, req *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error)
	List(ctx context.Context, deviceId uuid.UUID) ([]*dto.SessionListItem, error)
	Show(ctx context.Context, deviceId uuid.UUID, id uuid.UUID) (*dto.ShowSessionResponse, error)
	Delete(ctx context.Context, deviceId uuid.UUID, id uuid.UUID) error
	Search(ctx context.Context, deviceId uuid.UUID, query string) ([]*dto.SessionSearchResponse, error)
}

type sessionService struct {
	uowFactory        unitofwork.RepositoryFactory
	publisherService  IPublisherService
	embeddingProvider embedding.EmbeddingProvider
	eventPublisher    *pktNats.Publisher
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	embeddingProvider embedding.EmbeddingProvider,
	eventPublisher *pktNats.Publisher,
) ISessionService {
	return &sessionService{
		uowFactory:        uowFactory,
		publisherService:  publisherService,
		embeddingProvider: embeddingProvider,
		eventPublisher:    eventPublisher,
	}
}

func (s *sessionService) Save(ctx context.Context, deviceId uuid.UUID, req *dto.SaveSessionRequest) (*dto.SaveSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	tabs := make([]entity.SavedTab, 0, len(req.Tabs))
	for _, t := range req.Tabs {
		tabs = append(tabs, entity.SavedTab{
			TabId: t.TabId,
			Title: t.Title,
			URL:   t.URL,
			Text:  t.Text,
		})
	}

	session := entity.TabSession{
		Id:        uuid.New(),
		DeviceId:  deviceId,
		Name:      req.Name,
		Tabs:      tabs,
		TabCount:  len(tabs),
		CreatedAt: time.Now(),
	}

	if err := uow.TabSessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	// Embedding runs async so saving stays fast even for many tabs.
	msgPayload := dto.PublishEmbedSessionMessage{
		SessionId: session.Id,
	}
	msgJson, err := json.Marshal(msgPayload)
	if err != nil {
		return nil, err
	}
	if err := s.publisherService.Publish(ctx, msgJson); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: events.TypeSessionSaved,
			Data: map[string]interface{}{
				"device_id":  deviceId.String(),
				"session_id": session.Id.String(),
				"name":       session.Name,
				"tab_count":  session.TabCount,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish SESSION_SAVED event: %v\n", err)
		}
	}

	return &dto.SaveSessionResponse{Id: session.Id}, nil
}

func (s *sessionService) List(ctx context.Context, deviceId uuid.UUID) ([]*dto.SessionListItem, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.TabSessionRepository().FindAll(ctx,
		specification.OwnedByDevice{DeviceID: deviceId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.SessionListItem, 0, len(sessions))
	for _, sess := range sessions {
		items = append(items, &dto.SessionListItem{
			Id:        sess.Id,
			Name:      sess.Name,
			TabCount:  sess.TabCount,
			CreatedAt: sess.CreatedAt,
			UpdatedAt: sess.UpdatedAt,
		})
	}

	return items, nil
}

func (s *sessionService) Show(ctx context.Context, deviceId uuid.UUID, id uuid.UUID) (*dto.ShowSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.TabSessionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByDevice{DeviceID: deviceId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	tabs := make([]dto.SavedTabItem, 0, len(session.Tabs))
	for _, t := range session.Tabs {
		tabs = append(tabs, dto.SavedTabItem{
			TabId: t.TabId,
			Title: t.Title,
			URL:   t.URL,
			Text:  t.Text,
		})
	}

	return &dto.ShowSessionResponse{
		Id:        session.Id,
		Name:      session.Name,
		Tabs:      tabs,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}, nil
}

func (s *sessionService) Delete(ctx context.Context, deviceId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.TabSessionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.OwnedByDevice{DeviceID: deviceId},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.TabSessionRepository().Delete(ctx, id); err != nil {
		return err
	}

	if err := uow.SessionEmbeddingRepository().DeleteBySessionId(ctx, id); err != nil {
		return err
	}

	return uow.Commit()
}

// Search combines a cheap name match with vector search. Name hits rank
// first with full score; semantic hits fill the rest, deduplicated.
func (s *sessionService) Search(ctx context.Context, deviceId uuid.UUID, query string) ([]*dto.SessionSearchResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	response := make([]*dto.SessionSearchResponse, 0)
	seen := make(map[uuid.UUID]bool)

	named, err := uow.TabSessionRepository().FindAll(ctx,
		specification.OwnedByDevice{DeviceID: deviceId},
		specification.SessionNameQuery{Query: query},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	for _, sess := range named {
		seen[sess.Id] = true
		response = append(response, &dto.SessionSearchResponse{
			SessionId:      sess.Id,
			Name:           sess.Name,
			Excerpt:        sessionExcerpt(sess),
			RelevanceScore: 1.0,
			CreatedAt:      sess.CreatedAt,
		})
	}

	embeddingRes, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		// Name matches alone are still an answer when the embedding
		// backend is down.
		if len(response) > 0 {
			fmt.Printf("[WARN] Semantic search degraded to name match: %v\n", err)
			return response, nil
		}
		return nil, err
	}

	scoredResults, err := uow.SessionEmbeddingRepository().SearchSimilarWithScore(
		ctx, embeddingRes.Embedding.Values, semanticSearchLimit, deviceId, semanticSearchThreshold,
	)
	if err != nil {
		return nil, err
	}

	// Deduplicate chunks: keep the best-scoring chunk per session.
	ids := make([]uuid.UUID, 0)
	scoreMap := make(map[uuid.UUID]float64)
	excerptMap := make(map[uuid.UUID]string)
	for _, sr := range scoredResults {
		sid := sr.Embedding.SessionId
		if seen[sid] || scoreMap[sid] != 0 {
			continue
		}
		ids = append(ids, sid)
		scoreMap[sid] = sr.Similarity
		excerptMap[sid] = truncateRunes(sr.Embedding.Document, excerptRunes)
	}

	if len(ids) == 0 {
		return response, nil
	}

	fetched, err := uow.TabSessionRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.OwnedByDevice{DeviceID: deviceId},
	)
	if err != nil {
		return nil, err
	}

	byId := make(map[uuid.UUID]*entity.TabSession, len(fetched))
	for _, sess := range fetched {
		byId[sess.Id] = sess
	}

	// Preserve score order from the vector search.
	for _, id := range ids {
		sess, ok := byId[id]
		if !ok {
			continue
		}
		response = append(response, &dto.SessionSearchResponse{
			SessionId:      sess.Id,
			Name:           sess.Name,
			Excerpt:        excerptMap[id],
			RelevanceScore: scoreMap[id],
			CreatedAt:      sess.CreatedAt,
		})
	}

	return response, nil
}

func sessionExcerpt(sess *entity.TabSession) string {
	if len(sess.Tabs) == 0 {
		return ""
	}
	titles := ""
	for i, t := range sess.Tabs {
		if i > 0 {
			titles += ", "
		}
		titles += t.Title
		if len(titles) > excerptRunes {
			break
		}
	}
	return truncateRunes(titles, excerptRunes)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
