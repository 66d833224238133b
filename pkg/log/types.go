package log

// ZapConfig configures the zap-backed Logger.
type ZapConfig struct {
	Level        string // debug, info, warn, error
	Mode         string // "production" or anything else for development
	Encoding     string // "json" or "console"
	ColorEnabled bool   // colored level names, console encoding only
}

const (
	ModeProduction  = "production"
	EncodingConsole = "console"
	EncodingJSON    = "json"
)

type ctxKey string

// RunIDKey is the context key whose value is attached to every log line as run_id.
const RunIDKey ctxKey = "run_id"
