package surrealstore

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MDAnandaB35/study-planner/internal/store"
	"github.com/MDAnandaB35/study-planner/internal/store/storetest"
)

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// newTestStore connects to the server named by SURREALDB_URL and selects a
// database unique to the calling test.
func newTestStore(t *testing.T) store.Store {
	t.Helper()
	url := os.Getenv("SURREALDB_URL")
	if url == "" {
		t.Skip("SURREALDB_URL not set")
	}

	ctx := context.Background()
	s, err := New(ctx, Config{
		URL:       url,
		Namespace: getEnvOrDefault("SURREALDB_NS", "studyplanner_test"),
		Database:  "t_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		Username:  getEnvOrDefault("SURREALDB_USER", "root"),
		Password:  getEnvOrDefault("SURREALDB_PASS", "root"),
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.exec(context.Background(), "REMOVE DATABASE "+s.database, nil)
		_ = s.Close()
	})
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestSurrealStore(t *testing.T) {
	storetest.Run(t, newTestStore)
}

func TestIsNotFound(t *testing.T) {
	assert.False(t, isNotFound(nil))
	assert.False(t, isNotFound(assert.AnError))
	assert.True(t, isNotFound(errString("Expected a single or multiple results but got 0")))
	assert.True(t, isNotFound(errString("cbor: cannot unmarshal array into Go value of type models.Plan")))
}

type errString string

func (e errString) Error() string { return string(e) }
