// Package studyplanner is the HTTP application around the roadmap service.
//
// [Main] parses the command line into a [Command] and a [Config], opens the
// configured store (SQLite, PostgreSQL or SurrealDB) and either migrates the
// schema or serves the API. See [App.Handler] for the routes.
//
// # Environment Variables
//
//	PORT             - server port (default: 8080)
//	STORE_BACKEND    - sqlite, postgres or surrealdb (default: sqlite)
//	SQLITE_PATH      - SQLite file (default: studyplanner.db)
//	POSTGRES_DSN     - PostgreSQL connection string
//	SURREALDB_URL    - SurrealDB WebSocket URL (default: ws://localhost:8000/rpc)
//	SURREALDB_NS     - SurrealDB namespace (default: studyplanner)
//	SURREALDB_DB     - SurrealDB database (default: studyplanner)
//	SURREALDB_USER   - SurrealDB username (default: root)
//	SURREALDB_PASS   - SurrealDB password (default: root)
//	OPENAI_API_KEY   - completion API key; generation fails without it
//	OPENAI_BASE_URL  - OpenAI compatible endpoint
//	OPENAI_MODEL     - completion model (default: gpt-4o-mini)
//	FRONTEND_URL     - extra allowed CORS origin
//	NODE_ENV         - "production" marks cookies secure
//	SESSION_TTL      - login lifetime (default: 168h)
//	READ_ONLY        - start in read-only mode
//	LOG_LEVEL        - zerolog level (default: info)
package studyplanner

import (
	"context"
	"fmt"
)

// Main runs the application with the given arguments until ctx is done.
// Tests call it directly.
func Main(ctx context.Context, args []string) error {
	cmd, config, err := Parse(args)
	if err != nil {
		return fmt.Errorf("failed to parse configuration: %w", err)
	}

	app, err := New(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	defer app.Close()

	switch c := cmd.(type) {
	case *MigrateCommand:
		if err := app.Migrate(ctx, c); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	case *RunCommand:
		if c.Migrate {
			if err := app.Migrate(ctx, &MigrateCommand{}); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
		}
		if err := app.Run(ctx, c); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	default:
		return fmt.Errorf("unknown command type: %T", cmd)
	}

	return nil
}
