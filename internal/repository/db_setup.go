package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"taskflow/internal/models"
	"taskflow/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// NewID returns a fresh collision-free entity id.
func NewID() string {
	return uuid.NewString()
}

// CreateTableIfNotExists prepares the table used by PostgresBackend.
func CreateTableIfNotExists(db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS documents (
    name VARCHAR(255) PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}
	logger.SystemLogger.Info("Table 'documents' is ready")
	return nil
}

func DeleteAllTable(db *sql.DB) error {
	if _, err := db.Exec("DROP TABLE IF EXISTS documents"); err != nil {
		return fmt.Errorf("drop documents table: %w", err)
	}
	return nil
}

type seedUser struct {
	email    string
	fullName string
	role     models.Role
	password string
}

var seedUsers = []seedUser{
	{"admin@local", "Admin User", models.RoleAdmin, "Admin@123"},
	{"manager@local", "Manager User", models.RoleManager, "Manager@123"},
	{"employee@local", "Employee User", models.RoleEmployee, "Employee@123"},
}

// Seed inserts the demo users (skipping emails already present) and two
// sample tasks when the task list is empty.
func Seed(ctx context.Context, store *Store) error {
	return store.Update(ctx, func(doc *models.Document) error {
		now := time.Now().UnixMilli()

		for _, u := range seedUsers {
			if _, ok := doc.FindUserByEmail(u.email); ok {
				continue
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("hash seed password: %w", err)
			}
			doc.Users = append(doc.Users, models.User{
				ID:        NewID(),
				Email:     u.email,
				FullName:  u.fullName,
				Role:      u.role,
				Password:  string(hash),
				CreatedAt: now,
			})
			logger.SystemLogger.Info("Seeded user", zap.String("email", u.email), zap.String("role", string(u.role)))
		}

		if len(doc.Tasks) > 0 {
			return nil
		}
		idOf := func(email string) string {
			i, _ := doc.FindUserByEmail(email)
			return doc.Users[i].ID
		}
		employee, manager, admin := idOf("employee@local"), idOf("manager@local"), idOf("admin@local")
		doc.Tasks = append(doc.Tasks,
			models.Task{
				ID:          NewID(),
				Title:       "Initial setup",
				Description: "Create repo & CI",
				AssigneeID:  &employee,
				Status:      models.StatusTodo,
				Priority:    models.DefaultPriority,
				CreatedBy:   manager,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
			models.Task{
				ID:          NewID(),
				Title:       "Design schema",
				Description: "Define tables",
				AssigneeID:  &manager,
				Status:      models.StatusInProgress,
				Priority:    2,
				CreatedBy:   admin,
				CreatedAt:   now,
				UpdatedAt:   now,
			},
		)
		return nil
	})
}
