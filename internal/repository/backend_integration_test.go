package repository

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"taskflow/internal/models"

	"github.com/go-redis/redis/v8"
	_ "github.com/lib/pq"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dockerPool(t *testing.T) *dockertest.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping docker-backed test in short mode")
	}
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("docker not available: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}
	pool.MaxWait = 60 * time.Second
	return pool
}

func purgeOnCleanup(t *testing.T, pool *dockertest.Pool, resource *dockertest.Resource) {
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("purge container: %v", err)
		}
	})
}

func exerciseBackend(t *testing.T, backend Backend) {
	ctx := context.Background()
	store := NewStore(backend)

	doc, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, doc.Tasks)

	want := sampleDocument()
	require.NoError(t, store.Update(ctx, func(doc *models.Document) error {
		*doc = *want
		return nil
	}))

	got, err := NewStore(backend).Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRedisBackend(t *testing.T) {
	pool := dockerPool(t)
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	purgeOnCleanup(t, pool, resource)

	var client *redis.Client
	require.NoError(t, pool.Retry(func() error {
		client = redis.NewClient(&redis.Options{Addr: fmt.Sprintf("localhost:%s", resource.GetPort("6379/tcp"))})
		return client.Ping(context.Background()).Err()
	}))
	t.Cleanup(func() { client.Close() })

	exerciseBackend(t, NewRedisBackend(client, "taskflow:test"))
}

func TestPostgresBackend(t *testing.T) {
	pool := dockerPool(t)
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=task",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=taskflow",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	purgeOnCleanup(t, pool, resource)

	dsn := fmt.Sprintf("host=localhost port=%s user=task password=secret dbname=taskflow sslmode=disable", resource.GetPort("5432/tcp"))
	var db *sql.DB
	require.NoError(t, pool.Retry(func() error {
		var err error
		db, err = sql.Open("postgres", dsn)
		if err != nil {
			return err
		}
		return db.Ping()
	}))
	t.Cleanup(func() { db.Close() })

	require.NoError(t, CreateTableIfNotExists(db))
	exerciseBackend(t, NewPostgresBackend(db, "test"))
	require.NoError(t, DeleteAllTable(db))
}
