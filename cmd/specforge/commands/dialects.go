package commands

import (
	"flag"
	"fmt"

	"github.com/specforge/specforge/dialect"

	// blank imports register the dialect parsers at program init.
	_ "github.com/specforge/specforge/dialect/dynamicsource"
	_ "github.com/specforge/specforge/dialect/httpcontract"
	_ "github.com/specforge/specforge/dialect/typedsource"
)

// HandleDialects lists every registered source dialect.
func HandleDialects(args []string) error {
	fs := flag.NewFlagSet("dialects", flag.ContinueOnError)
	format := fs.String("format", FormatText, "output format: text, json")
	fs.Usage = func() {
		Writef(fs.Output(), "Usage: specforge dialects [flags]\n\n")
		Writef(fs.Output(), "List the source dialects accepted by the generate command.\n\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := ValidateOutputFormat(*format); err != nil {
		return err
	}

	names := dialect.Names()
	if *format == FormatJSON {
		return OutputJSON(names)
	}
	fmt.Println("Registered dialects:")
	for _, n := range names {
		fmt.Printf("  - %s\n", n)
	}
	return nil
}
