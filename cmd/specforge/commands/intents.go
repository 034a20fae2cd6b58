package commands

import (
	"flag"
	"fmt"

	"github.com/specforge/specforge/intent"
)

type intentEntry struct {
	ID       string `json:"id"`
	Category string `json:"category"`
}

// HandleIntents lists the frozen intent catalog (§6), for tool authors
// building a target_intents allow-list.
func HandleIntents(args []string) error {
	fs := flag.NewFlagSet("intents", flag.ContinueOnError)
	format := fs.String("format", FormatText, "output format: text, json")
	fs.Usage = func() {
		Writef(fs.Output(), "Usage: specforge intents [flags]\n\n")
		Writef(fs.Output(), "List the frozen intent catalog usable in --intents allow-lists.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := ValidateOutputFormat(*format); err != nil {
		return err
	}

	entries := make([]intentEntry, 0, len(intent.AllIDs))
	for _, id := range intent.AllIDs {
		entries = append(entries, intentEntry{ID: string(id), Category: string(intent.CategoryOf(id))})
	}

	if *format == FormatJSON {
		return OutputJSON(entries)
	}
	fmt.Println("Intent catalog:")
	for _, e := range entries {
		fmt.Printf("  %-32s %s\n", e.ID, e.Category)
	}
	return nil
}
