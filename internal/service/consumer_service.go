// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"tabsensei-be/internal/dto"
	"tabsensei-be/internal/entity"
	"tabsensei-be/internal/repository/specification"
	"tabsensei-be/internal/repository/unitofwork"
	"tabsensei-be/pkg/embedding"
	"tabsensei-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedSessionMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing session embedding for SessionId: %s", payload.SessionId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.TabSessionRepository().FindOne(ctx, specification.ByID{ID: payload.SessionId})
	if err != nil {
		log.Printf("[ERROR] Failed to get session %s: %v", payload.SessionId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if session == nil {
		log.Printf("[ERROR] Session not found: %s", payload.SessionId)
		msg.Ack() // Session deleted before the worker got to it? Ack.
		return
	}

	content := buildSessionDocument(session)

	log.Printf("[INFO] Generating embeddings for session %s (content length: %d)", payload.SessionId, len(content))

	// ChunkSize: 1500 chars (approx 375 tokens) - Ultra safe for context limits
	// Overlap: 200 chars
	chunks := utils.SplitText(content, 1500, 200)
	log.Printf("[INFO] Content split into %d chunks", len(chunks))

	var newEmbeddings []*entity.SessionEmbedding

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of session %s: %v", i, payload.SessionId, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.SessionEmbedding{
			Id:             uuid.New(),
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			SessionId:      session.Id,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	log.Printf("[INFO] Deleting old embeddings for session %s", payload.SessionId)
	if err := uow.SessionEmbeddingRepository().DeleteBySessionId(ctx, session.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Creating %d new embeddings for session %s", len(newEmbeddings), payload.SessionId)
	if len(newEmbeddings) > 0 {
		if err := uow.SessionEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Session processed: %d chunks for SessionId: %s", len(newEmbeddings), payload.SessionId)
	msg.Ack()
}

// buildSessionDocument flattens a saved session into one retrievable
// text block. Tab text is already readability-extracted on the
// extension side, so the document is session name + per-tab title,
// host and body.
func buildSessionDocument(session *entity.TabSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session: %s\nSaved At: %s\nTabs: %d\n",
		session.Name,
		session.CreatedAt.Format(time.RFC3339),
		len(session.Tabs),
	)

	for _, t := range session.Tabs {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Tab: %s\nURL: %s\n", t.Title, t.URL)
		if t.Text != "" {
			b.WriteString(t.Text)
			b.WriteString("\n")
		}
	}

	return b.String()
}
