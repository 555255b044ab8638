package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/grovekit/grove/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/grovekit/grove/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/grovekit/grove/internal/version.Date={{.Date}}
)
