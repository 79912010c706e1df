// Package services holds the task-management operations. Each mutating call
// runs as one document store update that also appends its audit record.
package services

import (
	"taskflow/internal/auth"
	"taskflow/internal/repository"
	"taskflow/pkg/crypto"
)

type Services struct {
	Tasks    *TaskService
	Users    *UserService
	Files    *FileService
	Messages *MessageService
	Reports  *ReportService
	Audit    *AuditService
}

func New(store *repository.Store, issuer *auth.Issuer, sealer *crypto.Sealer, publisher Publisher) *Services {
	audit := NewAuditService(store, publisher)
	return &Services{
		Tasks:    NewTaskService(store, audit),
		Users:    NewUserService(store, audit, issuer),
		Files:    NewFileService(store, audit, sealer),
		Messages: NewMessageService(store, audit),
		Reports:  NewReportService(store),
		Audit:    audit,
	}
}
