package github

const (
	DefaultBaseURL = "https://api.github.com"
	DefaultPerPage = 100

	headerAccept     = "application/vnd.github+json"
	headerAPIVersion = "2022-11-28"
)
