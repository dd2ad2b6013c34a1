// Package commands implements the formstate CLI.
package commands

import (
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/internal/config"
	"github.com/goliatone/go-formstate/internal/logging"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

const version = "0.1.0"

// app carries the state shared by every command of one invocation.
type app struct {
	v          *viper.Viper
	configPath string
	cfg        *config.Config
	logger     *zap.Logger
	// driver replaces the survey prompts when set.
	driver tui.PromptDriver
}

// Execute runs the root command against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd builds a fresh command tree. Each call owns its own viper
// instance so tests do not share flag or config state.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{})
}

func newRootCmd(a *app) *cobra.Command {
	if a.v == nil {
		a.v = config.New()
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}

	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Validate, prompt for and render declarative forms",
		Long: `formstate drives forms described by a definition document (YAML, TOML
or JSON). Every field tracks its value, validity, pristine/dirty and
touched/untouched flags; the form aggregates them.

Definitions can be written by hand or derived from an OpenAPI request body.`,
		Example: `  # Apply values and report field state
  formstate check signup.yaml --set email=ada@example.com --set age=36

  # Fill the form in the terminal
  formstate prompt signup.yaml --output pretty

  # Derive a definition from an OpenAPI operation
  formstate openapi api.json --operation createArticle > article.yaml

  # Render HTML markup
  formstate html signup.yaml --renderer vanilla --styles`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	root.SetVersionTemplate("formstate version {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./formstate.yaml)")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
	flags.String("log-format", "console", "log format: console, json")
	_ = a.v.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = a.v.BindPFlag("log_format", flags.Lookup("log-format"))

	root.AddCommand(
		newCheckCmd(a),
		newPromptCmd(a),
		newOpenAPICmd(a),
		newHTMLCmd(a),
		newServeCmd(a),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.v, a.configPath)
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

// definitionPath resolves the definition from the first argument or the
// configured default.
func (a *app) definitionPath(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if a.cfg != nil && a.cfg.Definition != "" {
		return a.cfg.Definition, nil
	}
	return "", errors.New("no definition given: pass a path or set definition in the config")
}
