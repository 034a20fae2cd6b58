package specforge

import "fmt"

var (
	// version is set via ldflags during build.
	// For development builds, this will show "dev".
	version = "dev"
)

// Version returns the compiled version or "dev" if run from source.
func Version() string {
	return version
}

// UserAgent returns the User-Agent string to use for outbound LLM provider
// calls made on behalf of the pipeline.
func UserAgent() string {
	return fmt.Sprintf("specforge/%s", version)
}
