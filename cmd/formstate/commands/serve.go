package commands

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/definition"
	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/httpbind"
	"github.com/goliatone/go-formstate/pkg/render"
)

type serveOptions struct {
	addr     string
	renderer string
	strict   bool
	ignore   []string
}

func newServeCmd(a *app) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve [definition]",
		Short: "Serve the form over HTTP",
		Long: `serve exposes the form on a single path: GET renders a pristine form,
POST binds the posted values, validates them and answers with the JSON
state of the form. Accepted submissions are logged.`,
		Example: `  formstate serve signup.yaml --addr :8080
  formstate serve signup.yaml --strict --ignore csrf_token`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.definitionPath(args)
			if err != nil {
				return err
			}
			def, doc, err := definition.LoadDefinition(path)
			if err != nil {
				return err
			}
			handler, err := a.formHandler(def, doc, opts)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.listen(ctx, opts.addr, handler)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.addr, "addr", "127.0.0.1:8080", "listen address")
	flags.StringVarP(&opts.renderer, "renderer", "r", "vanilla", "renderer for GET requests: vanilla, preact")
	flags.BoolVar(&opts.strict, "strict", false, "reject posts with undeclared fields")
	flags.StringSliceVar(&opts.ignore, "ignore", nil, "posted keys never bound to the form")
	return cmd
}

// formHandler answers GET with markup and POST/PUT/PATCH through httpbind.
func (a *app) formHandler(def formstate.Definition, doc definition.Document, opts *serveOptions) (http.Handler, error) {
	registry, err := htmlRegistry(true)
	if err != nil {
		return nil, err
	}
	renderer, err := registry.Get(opts.renderer)
	if err != nil {
		return nil, err
	}

	bindOpts := []httpbind.Option{httpbind.WithLogger(a.logger), httpbind.WithIgnore(opts.ignore...)}
	if opts.strict {
		bindOpts = append(bindOpts, httpbind.WithStrict())
	}
	submit := func(_ context.Context, data map[string]any) error {
		a.logger.Info("serve: submission accepted", zap.Any("data", data))
		return nil
	}
	post := httpbind.Handler(def, submit, bindOpts...)
	hints := render.HintsFromDocument(doc)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			post.ServeHTTP(w, r)
			return
		}
		form, err := formstate.New(def, formstate.WithLogger(a.logger))
		if err != nil {
			http.Error(w, "form unavailable", http.StatusInternalServerError)
			return
		}
		markup, err := renderer.Render(r.Context(), form, render.RenderOptions{
			Action: r.URL.Path,
			Hints:  hints,
		})
		if err != nil {
			a.logger.Error("serve: render form", zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", renderer.ContentType())
		_, _ = w.Write(markup)
	}), nil
}

func (a *app) listen(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("serve: listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
