package studyplanner

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const usage = `subcommand required

Usage: studyplanner [flags] <command>

Commands:
  run       Start the study planner API server
  migrate   Create or update the database schema

Examples:
  studyplanner run                                  # SQLite in ./studyplanner.db
  studyplanner -backend postgres run                # PostgreSQL from POSTGRES_DSN
  studyplanner -backend surrealdb migrate           # SurrealDB from SURREALDB_URL
  studyplanner -config studyplanner.yaml run        # settings from a YAML file
  studyplanner -read-only -port 8090 run`

// Parse reads the command line. Settings are layered: built-in defaults,
// then the optional YAML file given by -config, then environment variables,
// then flags that were set explicitly.
func Parse(args []string) (Command, *Config, error) {
	flagSet := flag.NewFlagSet("studyplanner", flag.ContinueOnError)

	var (
		configPath = flagSet.String("config", getEnv("STUDYPLANNER_CONFIG", ""), "Path to a YAML config file")
		port       = flagSet.String("port", "", "Server port")
		backend    = flagSet.String("backend", "", "Store backend: sqlite, postgres or surrealdb")
		sqlitePath = flagSet.String("sqlite-path", "", "SQLite database file")
		model      = flagSet.String("model", "", "Completion model")
		timeout    = flagSet.Duration("completion-timeout", 0, "Upper bound on a completion request")
		logLevel   = flagSet.String("log-level", "", "Log level: debug, info, warn, error")
		logPath    = flagSet.String("log-path", "", "Append logs to this file instead of stdout")
		logConsole = flagSet.Bool("log-console", false, "Human readable log output")
		production = flagSet.Bool("production", false, "Mark cookies secure")
		readOnly   = flagSet.Bool("read-only", false, "Reject every write (maintenance mode)")
		migrate    = flagSet.Bool("migrate", false, "Migrate the schema before serving")
	)

	if err := flagSet.Parse(args); err != nil {
		return nil, nil, err
	}

	remainingArgs := flagSet.Args()
	if len(remainingArgs) == 0 {
		return nil, nil, errors.New(usage)
	}

	var cmd Command
	switch remainingArgs[0] {
	case "run":
		cmd = &RunCommand{Migrate: *migrate}
	case "migrate":
		cmd = &MigrateCommand{}
	default:
		return nil, nil, fmt.Errorf("unknown command: %s\n\nValid commands: run, migrate", remainingArgs[0])
	}

	config := DefaultConfig()
	if *configPath != "" {
		if err := loadConfigFile(*configPath, config); err != nil {
			return nil, nil, err
		}
	}
	if err := applyEnv(config); err != nil {
		return nil, nil, err
	}

	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			config.ServerPort = *port
		case "backend":
			config.Backend = *backend
		case "sqlite-path":
			config.SQLitePath = *sqlitePath
		case "model":
			config.Completion.Model = *model
		case "completion-timeout":
			config.Completion.Timeout = *timeout
		case "log-level":
			config.LogLevel = *logLevel
		case "log-path":
			config.LogPath = *logPath
		case "log-console":
			config.LogConsole = *logConsole
		case "production":
			config.Production = *production
		case "read-only":
			config.ReadOnly = *readOnly
		}
	})

	if err := config.Validate(); err != nil {
		return nil, nil, err
	}
	return cmd, config, nil
}

func loadConfigFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(config *Config) error {
	config.ServerPort = getEnv("PORT", config.ServerPort)
	config.Backend = getEnv("STORE_BACKEND", config.Backend)
	config.SQLitePath = getEnv("SQLITE_PATH", config.SQLitePath)
	config.PostgresDSN = getEnv("POSTGRES_DSN", config.PostgresDSN)
	config.SurrealDBURL = getEnv("SURREALDB_URL", config.SurrealDBURL)
	config.SurrealDBNS = getEnv("SURREALDB_NS", config.SurrealDBNS)
	config.SurrealDBDB = getEnv("SURREALDB_DB", config.SurrealDBDB)
	config.SurrealDBUser = getEnv("SURREALDB_USER", config.SurrealDBUser)
	config.SurrealDBPass = getEnv("SURREALDB_PASS", config.SurrealDBPass)

	config.Completion.APIKey = getEnv("OPENAI_API_KEY", config.Completion.APIKey)
	config.Completion.BaseURL = getEnv("OPENAI_BASE_URL", config.Completion.BaseURL)
	config.Completion.Model = getEnv("OPENAI_MODEL", config.Completion.Model)

	config.LogLevel = getEnv("LOG_LEVEL", config.LogLevel)

	if frontend := os.Getenv("FRONTEND_URL"); frontend != "" {
		config.AllowedOrigins = appendOrigin(config.AllowedOrigins, frontend)
	}
	if env := os.Getenv("NODE_ENV"); env != "" {
		config.Production = env == "production"
	}
	if v := os.Getenv("READ_ONLY"); v != "" {
		readOnly, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid READ_ONLY value %q: %w", v, err)
		}
		config.ReadOnly = readOnly
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid SESSION_TTL value %q: %w", v, err)
		}
		config.SessionTTL = ttl
	}
	return nil
}

func appendOrigin(origins []string, origin string) []string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	for _, o := range origins {
		if o == origin {
			return origins
		}
	}
	return append(origins, origin)
}
