package services

import (
	"context"
	"time"

	"taskflow/internal/models"
	"taskflow/internal/repository"
	"taskflow/pkg/logger"

	"go.uber.org/zap"
)

// Audit action tags.
const (
	ActionEmployeeSignup = "EMPLOYEE_SIGNUP"
	ActionCreateUser     = "CREATE_USER"
	ActionDeleteUser     = "DELETE_USER"
	ActionCreateTask     = "CREATE_TASK"
	ActionUpdateTask     = "UPDATE_TASK"
	ActionDeleteTask     = "DELETE_TASK"
	ActionUploadFile     = "UPLOAD_FILE"
	ActionUpdateFile     = "UPDATE_FILE"
	ActionCreateMessage  = "CREATE_MESSAGE"
)

// Publisher receives every audit record after it has been persisted.
type Publisher interface {
	Publish(record models.AuditRecord)
}

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   string
	Role models.Role
}

// AuditService appends audit records and lists them.
type AuditService struct {
	store     *repository.Store
	publisher Publisher
	now       func() time.Time
}

func NewAuditService(store *repository.Store, publisher Publisher) *AuditService {
	return &AuditService{store: store, publisher: publisher, now: time.Now}
}

func (a *AuditService) List(ctx context.Context) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	err := a.store.View(ctx, func(doc *models.Document) error {
		records = doc.Audit
		return nil
	})
	return records, err
}

// mutate runs fn inside one store update and appends the audit record for
// the entity id fn returns. Both land in the same write, or neither does.
func (a *AuditService) mutate(ctx context.Context, action string, by *string, fn func(doc *models.Document, at int64) (string, error)) error {
	var record models.AuditRecord
	err := a.store.Update(ctx, func(doc *models.Document) error {
		at := a.now().UnixMilli()
		target, err := fn(doc, at)
		if err != nil {
			return err
		}
		record = models.AuditRecord{
			ID:     repository.NewID(),
			Action: action,
			By:     by,
			Target: target,
			At:     at,
		}
		doc.Audit = append(doc.Audit, record)
		return nil
	})
	if err != nil {
		return err
	}

	byID := ""
	if by != nil {
		byID = *by
	}
	logger.AuditLogger.Info("Audit event", zap.String("action", action), zap.String("by", byID), zap.String("target", record.Target))
	if a.publisher != nil {
		a.publisher.Publish(record)
	}
	return nil
}

func actorRef(actor Actor) *string {
	id := actor.ID
	return &id
}
