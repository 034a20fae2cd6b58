// Package commands provides CLI command handlers for specforge.
package commands

import (
	"fmt"
	"io"
	"os"

	encjson "github.com/segmentio/encoding/json"
)

// Output format constants.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", format, FormatText, FormatJSON)
	}
	return nil
}

// OutputJSON writes data to stdout as indented JSON.
func OutputJSON(data any) error {
	b, err := encjson.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling to json: %w", err)
	}
	fmt.Println(string(b))
	return nil
}

// ReadSpecPayload reads the raw spec bytes from a file path or "-" for
// stdin.
func ReadSpecPayload(path string) ([]byte, error) {
	if path == StdinFilePath {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// FormatSpecPath returns a display-friendly path for the specification.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// Writef writes formatted output to the writer, falling back to stderr if
// the write itself fails.
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}

// apiKeyOrEnv returns explicit if non-empty, otherwise the value of the
// named environment variable.
func apiKeyOrEnv(explicit, envVar string) string {
	if explicit != "" {
		return explicit
	}
	return os.Getenv(envVar)
}
