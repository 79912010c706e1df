package services

import (
	"context"

	"taskflow/internal/models"
	"taskflow/internal/repository"
)

type CreateMessageInput struct {
	TaskID string `json:"taskId" validate:"required"`
	Text   string `json:"text" validate:"required"`
}

type MessageService struct {
	store *repository.Store
	audit *AuditService
}

func NewMessageService(store *repository.Store, audit *AuditService) *MessageService {
	return &MessageService{store: store, audit: audit}
}

// List returns all messages, or only those of taskID when it is not empty.
func (s *MessageService) List(ctx context.Context, taskID string) ([]models.Message, error) {
	messages := []models.Message{}
	err := s.store.View(ctx, func(doc *models.Document) error {
		for _, m := range doc.Messages {
			if taskID == "" || m.TaskID == taskID {
				messages = append(messages, m)
			}
		}
		return nil
	})
	return messages, err
}

func (s *MessageService) Create(ctx context.Context, actor Actor, input CreateMessageInput) (models.Message, error) {
	if err := validateInput(input); err != nil {
		return models.Message{}, err
	}
	var msg models.Message
	err := s.audit.mutate(ctx, ActionCreateMessage, actorRef(actor), func(doc *models.Document, now int64) (string, error) {
		msg = models.Message{
			ID:        repository.NewID(),
			TaskID:    input.TaskID,
			Text:      input.Text,
			UserID:    actor.ID,
			CreatedAt: now,
		}
		doc.Messages = append(doc.Messages, msg)
		return msg.ID, nil
	})
	return msg, err
}
