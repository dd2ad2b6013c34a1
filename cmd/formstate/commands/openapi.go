package commands

import (
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/definition"
	"github.com/goliatone/go-formstate/pkg/openapi"
)

type openapiOptions struct {
	operation string
	format    string
	list      bool
	timeout   time.Duration
}

func newOpenAPICmd(a *app) *cobra.Command {
	opts := &openapiOptions{}
	cmd := &cobra.Command{
		Use:   "openapi <source>",
		Short: "Derive a form definition from an OpenAPI operation",
		Long: `openapi reads an OpenAPI 3 document from a file or an http(s) URL and
prints the definition derived from an operation's request body.`,
		Example: `  formstate openapi api.json --list
  formstate openapi api.json --operation createArticle --format toml
  formstate openapi https://example.com/openapi.json -O createArticle`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			src, err := openapi.ParseSource(args[0])
			if err != nil {
				return err
			}
			loader := openapi.NewLoader(openapi.WithHTTPFallback(opts.timeout))
			raw, err := loader.Load(ctx, src)
			if err != nil {
				return err
			}

			if opts.list {
				ids, err := openapi.Operations(ctx, raw)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}

			if opts.operation == "" {
				return errors.New("--operation is required unless --list is set")
			}
			format, err := definition.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			doc, err := openapi.DocumentFromOperation(ctx, raw, opts.operation)
			if err != nil {
				return err
			}
			a.logger.Debug("openapi: derived definition",
				zap.String("operation", opts.operation),
				zap.Int("fields", len(doc.Fields)),
			)
			out, err := definition.Encode(doc, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.operation, "operation", "O", "", "operation id to derive the definition from")
	flags.StringVarP(&opts.format, "format", "f", "yaml", "definition format: yaml, toml, json")
	flags.BoolVar(&opts.list, "list", false, "list operation ids and exit")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "timeout for URL sources")
	return cmd
}
