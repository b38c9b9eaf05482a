package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config  *Config
	mcpMode bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithStdioMCP switches the application into MCP mode: instead of the HTTP
// server, tools are served over stdin/stdout.
func WithStdioMCP() Option {
	return func(a *application) {
		a.mcpMode = true
	}
}
