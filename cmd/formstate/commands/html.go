package commands

import (
	"fmt"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/preact"
	"github.com/goliatone/go-formstate/pkg/renderers/vanilla"
)

type htmlOptions struct {
	renderer string
	action   string
	method   string
	styles   bool
	out      string
	sets     []string
}

func newHTMLCmd(a *app) *cobra.Command {
	opts := &htmlOptions{}
	cmd := &cobra.Command{
		Use:   "html [definition]",
		Short: "Render the form as HTML",
		Long: `html renders the form's current state as markup. The vanilla renderer
emits a plain form whose classes mirror each field's flags; the preact
renderer emits a mount point with a JSON snapshot for client hydration.`,
		Example: `  formstate html signup.yaml --styles > signup.html
  formstate html signup.yaml --renderer preact --action /signup
  formstate html signup.yaml --set email=nope --out invalid.html`,
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
			if err := applyAssignments(form, opts.sets); err != nil {
				return err
			}

			registry, err := htmlRegistry(opts.styles)
			if err != nil {
				return err
			}
			renderer, err := registry.Get(opts.renderer)
			if err != nil {
				return errors.Wrapf(err, "available: %v", registry.List())
			}

			renderOpts := renderOptions(doc)
			renderOpts.Action = opts.action
			renderOpts.Method = opts.method
			out, err := renderer.Render(cmd.Context(), form, renderOpts)
			if err != nil {
				return err
			}

			if opts.out == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(opts.out, out, 0o644); err != nil {
				return errors.Wrapf(err, "write %s", opts.out)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", opts.out)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.renderer, "renderer", "r", "vanilla", "renderer: vanilla, preact")
	flags.StringVar(&opts.action, "action", "", "form action URL")
	flags.StringVar(&opts.method, "method", "", "form method (default POST)")
	flags.BoolVar(&opts.styles, "styles", false, "inline the default stylesheet (vanilla)")
	flags.StringVar(&opts.out, "out", "", "write markup to a file instead of stdout")
	flags.StringArrayVar(&opts.sets, "set", nil, "field assignment name=value applied before rendering")
	return cmd
}

// htmlRegistry registers the markup renderers.
func htmlRegistry(styles bool) (*render.Registry, error) {
	var vanillaOpts []vanilla.Option
	if styles {
		vanillaOpts = append(vanillaOpts, vanilla.WithDefaultStyles())
	}
	markup, err := vanilla.New(vanillaOpts...)
	if err != nil {
		return nil, err
	}
	hydrated, err := preact.New()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(markup, hydrated)
}
