package commands

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/bubble"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

type promptOptions struct {
	interactive bool
}

func newPromptCmd(a *app) *cobra.Command {
	opts := &promptOptions{}
	cmd := &cobra.Command{
		Use:   "prompt [definition]",
		Short: "Fill a form in the terminal and print the submitted values",
		Long: `prompt asks for each field in definition order, re-asking while a value
is invalid, then submits the form and prints the collected data.

With --interactive the form is shown as a full-screen editor instead of a
question sequence; its output is always JSON.`,
		Example: `  formstate prompt signup.yaml
  formstate prompt signup.yaml --output pretty --max-attempts 3
  formstate prompt signup.yaml --interactive`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.definitionPath(args)
			if err != nil {
				return err
			}
			form, doc, err := a.loadForm(path)
			if err != nil {
				return err
			}

			renderer, err := a.promptRenderer(opts)
			if err != nil {
				return err
			}
			out, err := renderer.Render(cmd.Context(), form, renderOptions(doc))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringP("output", "o", "json", "output format: json, form, pretty")
	flags.Int("max-attempts", 0, "maximum prompts per invalid field (0 for unlimited)")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "use the full-screen editor")
	_ = a.v.BindPFlag("output", flags.Lookup("output"))
	_ = a.v.BindPFlag("max_attempts", flags.Lookup("max-attempts"))
	return cmd
}

func (a *app) promptRenderer(opts *promptOptions) (render.Renderer, error) {
	if opts.interactive {
		return bubble.NewRenderer(nil, bubble.WithLogger(a.logger)), nil
	}
	renderer, err := tui.New(
		tui.WithOutputFormat(tui.OutputFormat(a.cfg.Output)),
		tui.WithMaxAttempts(a.cfg.MaxAttempts),
		tui.WithLogger(a.logger),
		tui.WithPromptDriver(a.driver),
	)
	if err != nil {
		return nil, errors.Wrap(err, "prompt")
	}
	return renderer, nil
}
