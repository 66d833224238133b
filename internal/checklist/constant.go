package checklist

const (
	// Regex pattern: captures checkbox state and text
	// Example: "  - [x] Task name" → groups: ["x", "Task name"]
	CheckboxPattern = `^\s*[-*]\s+\[([ xX])\]\s+(.+)$`

	HeadingMarker = "#"
)

var (
	DefaultExtensions = []string{".md"}
	DefaultIgnoreDirs = []string{".git", ".github", "node_modules", "vendor", ".venv", "venv"}
)
