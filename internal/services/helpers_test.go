package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"taskflow/internal/auth"
	"taskflow/internal/models"
	"taskflow/internal/repository"

	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu      sync.Mutex
	records []models.AuditRecord
}

func (p *recordingPublisher) Publish(record models.AuditRecord) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, record)
}

type fixture struct {
	store     *repository.Store
	svc       *Services
	published *recordingPublisher
	clock     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     repository.NewStore(repository.NewMemoryBackend()),
		published: &recordingPublisher{},
		clock:     time.UnixMilli(1_700_000_000_000),
	}
	f.svc = New(f.store, auth.NewIssuer("test-secret", time.Hour), nil, f.published)
	f.svc.Audit.now = func() time.Time { return f.clock }
	return f
}

func (f *fixture) tick(d time.Duration) {
	f.clock = f.clock.Add(d)
}

func (f *fixture) doc(t *testing.T) *models.Document {
	t.Helper()
	doc, err := f.store.Read(context.Background())
	require.NoError(t, err)
	return doc
}

// addUser inserts a user directly, bypassing services and audit.
func (f *fixture) addUser(t *testing.T, email string, role models.Role, password string) models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	user := models.User{ID: repository.NewID(), Email: email, FullName: email, Role: role, Password: hash, CreatedAt: 1}
	require.NoError(t, f.store.Update(context.Background(), func(doc *models.Document) error {
		doc.Users = append(doc.Users, user)
		return nil
	}))
	return user
}

var (
	admin    = Actor{ID: "admin-1", Role: models.RoleAdmin}
	manager  = Actor{ID: "manager-1", Role: models.RoleManager}
	employee = Actor{ID: "employee-1", Role: models.RoleEmployee}
	stranger = Actor{ID: "guest-1", Role: "GUEST"}
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
