package studyplanner

// Command is a sub-command selected on the command line.
type Command interface {
	// Name must match the sub-command name.
	Name() string
}

// MigrateCommand creates or updates the schema of the configured backend.
type MigrateCommand struct{}

func (c *MigrateCommand) Name() string {
	return "migrate"
}

// RunCommand serves the HTTP API until the context is cancelled.
type RunCommand struct {
	// Migrate runs the schema migration before serving.
	Migrate bool
}

func (c *RunCommand) Name() string {
	return "run"
}
