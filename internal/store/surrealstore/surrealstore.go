// Package surrealstore implements [store.Store] on SurrealDB using SurrealQL
// and the surrealcbor codec.
//
// Records are keyed by the typed ids of package models, which encode
// themselves as SurrealDB record ids (plans:⟨uuid⟩, milestones:⟨uuid⟩ ...).
// Foreign keys such as plan_id and milestone_id are stored as record ids too,
// so parent filters compare record ids directly.
//
// SurrealDB has no foreign key cascade. Deleting a plan, milestone or step
// runs one transaction that deletes every descendant first.
package surrealstore

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"github.com/MDAnandaB35/study-planner/internal/store"
)

type SurrealStore struct {
	db       *surrealdb.DB
	ns       string
	database string
}

type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

var _ store.Store = (*SurrealStore)(nil)

// New connects over WebSocket, signs in when credentials are given and
// selects the namespace and database.
func New(ctx context.Context, cfg Config) (*SurrealStore, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}

	conf := connection.NewConfig(u)
	// surrealcbor maps time.Time to SurrealDB datetimes and honours the
	// MarshalCBOR/UnmarshalCBOR methods of the typed ids.
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SurrealDB: %w", err)
	}

	if cfg.Username != "" && cfg.Password != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": cfg.Username,
			"pass": cfg.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err := db.Use(ctx, cfg.Namespace, cfg.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/database: %w", err)
	}

	return &SurrealStore{
		db:       db,
		ns:       cfg.Namespace,
		database: cfg.Database,
	}, nil
}

// Migrate defines the unique indexes the application relies on. Tables
// themselves are created on first insert.
func (s *SurrealStore) Migrate(ctx context.Context) error {
	const schema = `
DEFINE INDEX IF NOT EXISTS users_email ON users FIELDS email UNIQUE;
DEFINE INDEX IF NOT EXISTS sessions_token ON sessions FIELDS token UNIQUE;
DEFINE INDEX IF NOT EXISTS bookmarks_user_plan ON bookmarks FIELDS user_id, plan_id UNIQUE;
DEFINE INDEX IF NOT EXISTS progress_user_milestone ON milestone_progresses FIELDS user_id, milestone_id UNIQUE;
DEFINE INDEX IF NOT EXISTS milestones_plan ON milestones FIELDS plan_id;
DEFINE INDEX IF NOT EXISTS steps_milestone ON steps FIELDS milestone_id;
DEFINE INDEX IF NOT EXISTS resources_step ON resources FIELDS step_id;
`
	if _, err := surrealdb.Query[any](ctx, s.db, schema, nil); err != nil {
		return fmt.Errorf("failed to define indexes: %w", err)
	}
	return nil
}

func (s *SurrealStore) Close() error {
	return s.db.Close(context.Background())
}

// isNotFound reports whether err is how the SDK signals an empty selection.
func isNotFound(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Expected a single or multiple results but got 0") ||
		strings.Contains(msg, "cannot unmarshal array into Go value")
}

// exec runs statements whose results are not needed.
func (s *SurrealStore) exec(ctx context.Context, query string, params map[string]any) error {
	_, err := surrealdb.Query[any](ctx, s.db, query, params)
	return err
}

// selectAll runs a single SELECT and returns pointers to its rows.
func selectAll[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) ([]*T, error) {
	result, err := surrealdb.Query[[]T](ctx, db, query, params)
	if err != nil {
		return nil, err
	}
	if result == nil || len(*result) == 0 {
		return nil, nil
	}
	rows := (*result)[0].Result
	out := make([]*T, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func selectOne[T any](ctx context.Context, db *surrealdb.DB, query string, params map[string]any) (*T, error) {
	rows, err := selectAll[T](ctx, db, query, params)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

// lastOrder returns the highest order_index in table for the parent, or -1.
func (s *SurrealStore) lastOrder(ctx context.Context, table, column string, parent any) (int, error) {
	query := fmt.Sprintf("SELECT VALUE order_index FROM %s WHERE %s = $parent ORDER BY order_index DESC LIMIT 1", table, column)
	result, err := surrealdb.Query[[]int](ctx, s.db, query, map[string]any{"parent": parent})
	if err != nil {
		return 0, err
	}
	if result == nil || len(*result) == 0 || len((*result)[0].Result) == 0 {
		return -1, nil
	}
	return (*result)[0].Result[0], nil
}
