package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/specforge/specforge"
	"github.com/specforge/specforge/cmd/specforge/commands"
	"github.com/specforge/specforge/internal/mcpserver"
)

// validCommands lists all valid command names for typo suggestions.
var validCommands = []string{"generate", "dialects", "intents", "mcp", "version", "help"}

// levenshteinDistance calculates the minimum edit distance between two strings.
func levenshteinDistance(a, b string) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range len(b) + 1 {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,
				matrix[i][j-1]+1,
				matrix[i-1][j-1]+cost,
			)
		}
	}
	return matrix[len(a)][len(b)]
}

// suggestCommand returns the closest matching command if the edit distance is <= 2.
func suggestCommand(input string) string {
	var bestMatch string
	bestDistance := 3
	for _, cmd := range validCommands {
		dist := levenshteinDistance(input, cmd)
		if dist < bestDistance {
			bestDistance = dist
			bestMatch = cmd
		}
	}
	return bestMatch
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "version", "-v", "--version":
		fmt.Printf("specforge v%s\n", specforge.Version())
	case "help", "-h", "--help":
		printUsage()
	case "generate":
		if err := commands.HandleGenerate(os.Args[2:]); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "dialects":
		if err := commands.HandleDialects(os.Args[2:]); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "intents":
		if err := commands.HandleIntents(os.Args[2:]); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if err := mcpserver.Run(ctx); err != nil {
			commands.Writef(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		commands.Writef(os.Stderr, "Unknown command: %s\n", command)
		if suggestion := suggestCommand(command); suggestion != "" {
			commands.Writef(os.Stderr, "Did you mean: %s?\n", suggestion)
		}
		commands.Writef(os.Stderr, "\n")
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`specforge - deterministic test-suite generation from API and source specs

Usage:
  specforge <command> [options]

Commands:
  generate    Generate a test suite from a specification file
  dialects    List the accepted source dialects
  intents     List the frozen test-intent catalog
  mcp         Start an MCP server over stdio
  version     Show version information
  help        Show this help message

Examples:
  specforge generate --dialect http-contract -o ./tests api.yaml
  specforge generate --dialect dynamic-source --framework function-direct -o ./tests users.py
  specforge dialects
  specforge intents
  cat api.yaml | specforge generate --dialect http-contract -o ./tests -

Run 'specforge <command> --help' for more information on a command.`)
}
