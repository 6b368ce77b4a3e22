package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/internal/log"
	"github.com/goliatone/go-formstate/pkg/formdef"
	machine "github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/model"
	pkgopenapi "github.com/goliatone/go-formstate/pkg/openapi"
	"github.com/goliatone/go-formstate/pkg/rendercount"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

// ErrNotTerminal is returned by interactive commands when stdin is not a
// terminal.
var ErrNotTerminal = errors.New("interactive session needs a terminal")

// isTerminal reports whether f is attached to a terminal.
// It can be overridden in tests.
var isTerminal = func(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// newPromptDriver returns the driver interactive sessions prompt through.
// It can be overridden in tests.
var newPromptDriver = func() tui.PromptDriver { return tui.NewSurveyDriver() }

const recentLogLines = 10

var (
	runFormID   string
	printDef    bool
	operationID string
	overlayPath string
	maxRounds   int
)

var runCmd = &cobra.Command{
	Use:   "run <route|file>",
	Short: "Fill in a form interactively",
	Long: `Run a gallery example or a form definition file in the terminal.

Fields are prompted in order; rejected submits re-ask only the fields that
show an error. The accepted submission is printed in the --output format.

Examples:
  formstate run /zod-example
  formstate run rhf-field-array --output pretty
  formstate run forms/signup.yaml --id signup`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

var defCmd = &cobra.Command{
	Use:   "def <file>",
	Short: "Run or print a YAML/JSON form definition",
	Long: `Load a form definition file and run it interactively. With --print the
normalized definition is written as YAML instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runDef,
}

var openapiCmd = &cobra.Command{
	Use:   "openapi <file>",
	Short: "Run the form for an OpenAPI operation's request body",
	Long: `Build a form from the JSON request body of an OpenAPI operation and run
it interactively. With --print the derived definition is written as YAML.

Examples:
  formstate openapi api.yaml --operation createProject
  formstate openapi api.yaml --operation createProject --print
  formstate openapi api.yaml --operation createProject --overlay copy.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runOpenAPI,
}

func init() {
	rootCmd.AddCommand(runCmd, defCmd, openapiCmd)
	for _, cmd := range []*cobra.Command{runCmd, defCmd, openapiCmd} {
		cmd.Flags().IntVar(&maxRounds, "rounds", 3, "submit attempts before giving up")
	}
	runCmd.Flags().StringVar(&runFormID, "id", "", "form id inside a definition file with several forms")
	defCmd.Flags().StringVar(&runFormID, "id", "", "form id inside a definition file with several forms")
	defCmd.Flags().BoolVar(&printDef, "print", false, "print the normalized definition instead of running it")
	openapiCmd.Flags().StringVar(&operationID, "operation", "", "operation id whose request body becomes the form")
	openapiCmd.Flags().BoolVar(&printDef, "print", false, "print the derived definition instead of running it")
	openapiCmd.Flags().StringVar(&overlayPath, "overlay", "", "definition file whose labels and messages override the document's")
	_ = openapiCmd.MarkFlagRequired("operation")
}

func runRun(cmd *cobra.Command, args []string) error {
	tracker := rendercount.NewTracker()
	t, err := loadTarget(args[0], runFormID, tracker)
	if err != nil {
		return err
	}
	defer t.close()
	return interact(cmd, t)
}

func runDef(cmd *cobra.Command, args []string) error {
	if printDef {
		forms, err := formdef.LoadFile(args[0])
		if err != nil {
			return err
		}
		for _, form := range forms {
			if runFormID != "" && form.ID != runFormID {
				continue
			}
			if err := printForm(cmd.OutOrStdout(), form); err != nil {
				return err
			}
		}
		return nil
	}
	if !isDefinitionFile(args[0]) {
		return fmt.Errorf("%s: expected a .yaml, .yml or .json definition", args[0])
	}
	t, err := loadTarget(args[0], runFormID, nil)
	if err != nil {
		return err
	}
	return interact(cmd, t)
}

func runOpenAPI(cmd *cobra.Command, args []string) error {
	form, err := formstate.LoadOperation(cmd.Context(), pkgopenapi.SourceFromFile(args[0]), operationID)
	if err != nil {
		return err
	}
	if overlayPath != "" {
		overlay, err := formdef.LoadOverlay(overlayPath)
		if err != nil {
			return err
		}
		if err := model.Apply(&form, overlay); err != nil {
			return err
		}
		log.Debug(log.CatCLI, "overlay applied", "file", overlayPath, "form", form.ID)
	}
	if printDef {
		return printForm(cmd.OutOrStdout(), form)
	}
	options, err := machineOptions()
	if err != nil {
		return err
	}
	m, err := machine.FromModel(form, options...)
	if err != nil {
		return err
	}
	return interact(cmd, &target{machine: m})
}

func printForm(w io.Writer, form model.FormModel) error {
	out, err := formdef.Marshal(form)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

// interact runs a prompt session over t and prints the accepted submission.
// Gallery examples also print their submit summary and render counters.
func interact(cmd *cobra.Command, t *target) error {
	if !isTerminal(os.Stdin) {
		return ErrNotTerminal
	}
	out := cmd.OutOrStdout()

	var summary string
	options := []tui.Option{
		tui.WithPromptDriver(newPromptDriver()),
		tui.WithOutputFormat(cfg.Format()),
		tui.WithMaxRounds(maxRounds),
	}
	if t.example != nil {
		e := t.example
		fmt.Fprintln(out, headingStyle.Render(e.Title))
		fmt.Fprintln(out, e.Description)
		options = append(options, tui.WithSubmitTransformer(func(values map[string]any) (map[string]any, error) {
			summary = e.Summarize(values)
			return values, nil
		}))
	}

	result, err := tui.New(options...).Render(cmd.Context(), t.machine, formstate.RenderOptions{})
	if err != nil {
		log.ErrorErr(log.CatCLI, "session ended", err, "form", t.machine.Form().ID)
		if cfg.Log.File != "" {
			printRecentLogs(cmd.ErrOrStderr())
		}
		return err
	}
	if summary != "" {
		fmt.Fprintln(out, summary)
	}
	if t.demo != nil {
		fmt.Fprintln(out, t.demo.Page().Badge())
		fmt.Fprintln(out, t.demo.Form().Badge())
	}
	_, err = out.Write(result)
	if err == nil && len(result) > 0 && result[len(result)-1] != '\n' {
		_, err = fmt.Fprintln(out)
	}
	return err
}

// printRecentLogs echoes the tail of the log file so a failed session can
// be diagnosed without opening it.
func printRecentLogs(w io.Writer) {
	entries := log.GetRecentLogs(recentLogLines)
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(w, "Recent log entries:")
	for _, entry := range entries {
		fmt.Fprint(w, entry)
	}
}
