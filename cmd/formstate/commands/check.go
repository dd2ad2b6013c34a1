package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formstate/pkg/formstate"
)

type checkOptions struct {
	sets   []string
	submit bool
	json   bool
}

// checkReport is the --json output of check.
type checkReport struct {
	Form   formstate.FormState   `json:"form"`
	Fields formstate.FieldsState `json:"fields"`
	Data   map[string]any        `json:"data"`
	Fails  map[string][]string   `json:"fails,omitempty"`
}

func newCheckCmd(a *app) *cobra.Command {
	opts := &checkOptions{}
	cmd := &cobra.Command{
		Use:   "check [definition]",
		Short: "Apply values to a form and report its state",
		Long: `check builds the form from a definition, applies each --set value as a
change followed by a blur, and prints every field's flags. The command
fails when the resulting form is invalid.`,
		Example: `  formstate check signup.yaml --set email=ada@example.com
  formstate check signup.yaml --set age=12 --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(a, cmd.OutOrStdout(), args, opts)
		},
	}
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "field assignment name=value (repeatable)")
	cmd.Flags().BoolVar(&opts.submit, "submit", false, "dispatch a submit after applying values")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the state as JSON")
	return cmd
}

func runCheck(a *app, w io.Writer, args []string, opts *checkOptions) error {
	path, err := a.definitionPath(args)
	if err != nil {
		return err
	}
	form, _, err := a.loadForm(path)
	if err != nil {
		return err
	}
	if err := applyAssignments(form, opts.sets); err != nil {
		return err
	}
	if opts.submit {
		if err := form.Submit(); err != nil {
			return err
		}
	}

	fails := make(map[string][]string)
	for _, name := range form.Definition().Names() {
		if reasons, _ := form.Explain(name); len(reasons) > 0 {
			fails[name] = reasons
		}
	}

	if opts.json {
		out, err := json.MarshalIndent(checkReport{
			Form:   form.State(),
			Fields: form.Fields(),
			Data:   form.Data(),
			Fails:  fails,
		}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(out))
	} else {
		writeCheckTable(w, form, fails)
	}

	if form.State().Invalid {
		return ErrFormInvalid
	}
	return nil
}

func writeCheckTable(w io.Writer, form *formstate.Form, fails map[string][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FIELD\tVALUE\tVALID\tPRISTINE\tTOUCHED\tFAILS")
	form.Fields().Each(func(name string, fs formstate.FieldState) {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%t\t%s\n",
			name, formatValue(fs.Value), fs.Valid, fs.Pristine, fs.Touched, strings.Join(fails[name], ", "))
	})
	_ = tw.Flush()

	state := form.State()
	fmt.Fprintf(w, "form: %s, %s\n", pick(state.Valid, "valid", "invalid"), pick(state.Pristine, "pristine", "dirty"))
}

func formatValue(value any) string {
	if value == nil {
		return "<nil>"
	}
	if s, ok := value.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return formstate.Text(value)
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
