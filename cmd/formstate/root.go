package main

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/log"
	"github.com/goliatone/go-formstate/pkg/render"
)

const logBufferSize = 500

var (
	cfgFile  string
	cfg      config.Config
	settings = config.New()
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "formstate",
	Short: "Explore form validation techniques from the terminal",
	Long: `formstate drives form state machines: browse the example gallery,
fill forms in interactively, or render their current state as HTML or text.

Settings are read from formstate.yaml (current directory or
~/.config/formstate), FORMSTATE_* environment variables and flags, in
increasing precedence.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		closeLog()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default ./formstate.yaml or ~/.config/formstate/formstate.yaml)")
	flags.StringP("output", "o", string(render.FormatJSON), "submission format: json, form or pretty")
	flags.String("locale", "en", "locale for validation messages")
	flags.String("messages", "", "message catalog file (YAML or JSON) merged over the built-in messages")
	flags.String("theme", render.DefaultThemeName, "theme name for HTML output")
	flags.String("variant", "", "theme variant (defaults to the example's color)")
	flags.String("mode", "", "override the validation mode: submit, touched, change or native")
	flags.Bool("debug", false, "write debug logs to stderr")
	flags.String("log-file", "", "append logs to this file")
	flags.String("log-level", "info", "minimum log level: debug, info, warn or error")

	for key, name := range map[string]string{
		config.KeyOutput:   "output",
		config.KeyLocale:   "locale",
		config.KeyMessages: "messages",
		config.KeyTheme:    "theme",
		config.KeyVariant:  "variant",
		config.KeyMode:     "mode",
		config.KeyDebug:    "debug",
		config.KeyLogFile:  "log-file",
		config.KeyLogLevel: "log-level",
	} {
		_ = settings.BindPFlag(key, flags.Lookup(name))
	}
}

func setup(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(settings, cfgFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level, _ := log.ParseLevel(cfg.Log.Level)
	switch {
	case cfg.Log.File != "":
		closer, err := log.Init(cfg.Log.File, logBufferSize)
		if err != nil {
			return err
		}
		closeLog = closer
		log.SetEnabled(true)
	case cfg.Debug:
		log.InitWriter(cmd.ErrOrStderr(), logBufferSize)
		level = log.LevelDebug
	default:
		log.SetEnabled(false)
	}
	log.SetMinLevel(level)
	log.Debug(log.CatCLI, "command started", "command", cmd.CommandPath())
	return nil
}
