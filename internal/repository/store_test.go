package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"taskflow/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *models.Document {
	assignee := "u-2"
	due := int64(1767225600000)
	by := "u-1"
	return &models.Document{
		Users: []models.User{
			{ID: "u-1", Email: "a@x.com", FullName: "A", Role: models.RoleAdmin, Password: "hash", CreatedAt: 1},
			{ID: "u-2", Email: "b@x.com", FullName: "B", Role: models.RoleEmployee, Password: "hash", CreatedAt: 2},
		},
		Tasks: []models.Task{
			{ID: "t-1", Title: "Write docs", AssigneeID: &assignee, Status: "TODO", Priority: 3, DueDate: &due, CreatedBy: "u-1", CreatedAt: 3, UpdatedAt: 3},
		},
		Files: []models.File{
			{ID: "f-1", Name: "a.txt", ContentBase64: "YQ==", Versions: []models.FileVersion{{Ver: 1, ContentBase64: "YQ==", UploadedAt: 4}}, UploadedBy: "u-1", CreatedAt: 4},
		},
		Messages: []models.Message{{ID: "m-1", TaskID: "t-1", Text: "hi", UserID: "u-2", CreatedAt: 5}},
		Audit:    []models.AuditRecord{{ID: "a-1", Action: "CREATE_TASK", By: &by, Target: "t-1", At: 3}},
	}
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewFileBackend(filepath.Join(t.TempDir(), "db.json")))

	want := sampleDocument()
	require.NoError(t, store.Update(ctx, func(doc *models.Document) error {
		*doc = *want
		return nil
	}))

	got, err := NewStore(store.backend).Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStoreReadDefaultsMissingCollections(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	require.NoError(t, backend.Save(ctx, []byte(`{"users":[{"id":"u-1","email":"a@x.com"}]}`)))

	doc, err := NewStore(backend).Read(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Users, 1)
	assert.NotNil(t, doc.Tasks)
	assert.NotNil(t, doc.Files)
	assert.NotNil(t, doc.Messages)
	assert.NotNil(t, doc.Audit)
}

func TestStoreReadEmptyBackend(t *testing.T) {
	doc, err := NewStore(NewMemoryBackend()).Read(context.Background())
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
	assert.Empty(t, doc.Tasks)
}

func TestStoreCorruptedFileIsReset(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	store := NewStore(NewFileBackend(path))
	doc, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Users)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var persisted models.Document
	require.NoError(t, json.Unmarshal(raw, &persisted))
	assert.NotNil(t, persisted.Tasks)
}

func TestStoreReadWriteContract(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend())

	doc, err := store.Read(ctx)
	require.NoError(t, err)
	doc.Tasks = append(doc.Tasks, models.Task{ID: "t-1", Title: "x"})
	require.NoError(t, store.Write(ctx))

	again, err := store.Read(ctx)
	require.NoError(t, err)
	require.Len(t, again.Tasks, 1)
	assert.Equal(t, "t-1", again.Tasks[0].ID)
}

func TestStoreUpdateErrorLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend())
	require.NoError(t, store.Update(ctx, func(doc *models.Document) error {
		doc.Tasks = append(doc.Tasks, models.Task{ID: "t-1"})
		return nil
	}))

	boom := errors.New("boom")
	err := store.Update(ctx, func(doc *models.Document) error {
		doc.Tasks = nil
		doc.Audit = append(doc.Audit, models.AuditRecord{ID: "a-1"})
		return boom
	})
	assert.ErrorIs(t, err, boom)

	require.NoError(t, store.View(ctx, func(doc *models.Document) error {
		assert.Len(t, doc.Tasks, 1)
		assert.Empty(t, doc.Audit)
		return nil
	}))
}

func TestStoreViewDoesNotPersist(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend())
	require.NoError(t, store.View(ctx, func(doc *models.Document) error {
		doc.Users = append(doc.Users, models.User{ID: "u-1"})
		return nil
	}))

	doc, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Users)
}

func TestStoreConcurrentUpdatesKeepEveryWrite(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewFileBackend(filepath.Join(t.TempDir(), "db.json")))

	const writers = 40
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Update(ctx, func(doc *models.Document) error {
				doc.Tasks = append(doc.Tasks, models.Task{ID: fmt.Sprintf("t-%d", i)})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	doc, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Tasks, writers)
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewStore(NewMemoryBackend())

	require.NoError(t, Seed(ctx, store))
	require.NoError(t, Seed(ctx, store))

	doc, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, doc.Users, 3)
	assert.Len(t, doc.Tasks, 2)

	i, ok := doc.FindUserByEmail("manager@local")
	require.True(t, ok)
	assert.Equal(t, models.RoleManager, doc.Users[i].Role)
	assert.NotEqual(t, "Manager@123", doc.Users[i].Password)
}

func TestFileBackendMissingFile(t *testing.T) {
	raw, err := NewFileBackend(filepath.Join(t.TempDir(), "nested", "db.json")).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, raw)
}

func TestFileBackendSaveReplacesWholeFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	path := filepath.Join(dir, "db.json")
	backend := NewFileBackend(path)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, []byte(`{"users":[{"id":"a"},{"id":"b"}]}`)))
	require.NoError(t, backend.Save(ctx, []byte(`{"users":[]}`)))

	raw, err := backend.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, `{"users":[]}`, string(raw))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files left behind")
	assert.Equal(t, "db.json", entries[0].Name())
}
