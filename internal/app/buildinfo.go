package app

// Build information populated via -ldflags at build time.
var (
	BuildVersion = "0.0.0-dev"
	BuildCommit  = "unknown"
)

// Version renders the build information for --version output.
func Version() string {
	return BuildVersion + " (" + BuildCommit + ")"
}
