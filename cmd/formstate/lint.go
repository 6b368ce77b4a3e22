package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/internal/log"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
)

// ErrLintFindings is returned by lint when any document has findings.
var ErrLintFindings = errors.New("form hints have problems")

var lintCmd = &cobra.Command{
	Use:   "lint <file>...",
	Short: "Check the x-formstate hints of OpenAPI documents",
	Long: `Report x-formstate hints the form builder would ignore or reject:
unknown keys, hints at the wrong level, visibleWhen rules that do not
compile or read missing fields, and matches/requiredIf targets that are
not sibling properties.

The command exits non-zero when any finding is reported.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLint,
}

func init() {
	rootCmd.AddCommand(lintCmd)
}

func runLint(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	total := 0
	for _, path := range args {
		found, err := formstate.LintDocument(cmd.Context(), pkgopenapi.SourceFromFile(path))
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		for _, f := range found {
			fmt.Fprintf(out, "%s: %s\n", path, f)
		}
		log.Info(log.CatCLI, "linted document", "file", path, "findings", len(found))
		total += len(found)
	}
	if total > 0 {
		return fmt.Errorf("%w: %d finding(s)", ErrLintFindings, total)
	}
	fmt.Fprintf(out, "%d document(s) ok\n", len(args))
	return nil
}
