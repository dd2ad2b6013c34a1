package httpbind

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/goliatone/go-formstate/pkg/formstate"
	"github.com/goliatone/go-formstate/pkg/render"
)

// SubmitFunc receives the data of a valid post.
type SubmitFunc func(ctx context.Context, data map[string]any) error

// FieldErrors lets a SubmitFunc reject a post with messages keyed by field
// name or path (see render.MapErrors).
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	return "httpbind: submission rejected"
}

// Response is the JSON body Handler writes.
type Response struct {
	Valid      bool                  `json:"valid"`
	Form       formstate.FormState   `json:"form"`
	Fields     formstate.FieldsState `json:"fields"`
	Data       map[string]any        `json:"data"`
	Errors     map[string][]string   `json:"errors,omitempty"`
	FormErrors []string              `json:"form_errors,omitempty"`
	Error      string                `json:"error,omitempty"`
}

// Handler serves form posts for definition. Each request gets a fresh form;
// a valid post is passed to onSubmit and then submitted. Responses are JSON:
// 200 for accepted posts, 422 for invalid ones, 400 for malformed requests.
func Handler(definition formstate.Definition, onSubmit SubmitFunc, options ...Option) http.Handler {
	cfg := newConfig(options)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost, http.MethodPut, http.MethodPatch:
		default:
			w.Header().Set("Allow", "POST, PUT, PATCH")
			writeJSON(w, http.StatusMethodNotAllowed, Response{Error: "method not allowed"})
			return
		}

		ctx := r.Context()
		form, err := formstate.New(definition, formstate.WithLogger(cfg.logger))
		if err != nil {
			cfg.logger.Error("httpbind: build form", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, Response{Error: "form unavailable"})
			return
		}

		var valueErrs ValueErrors
		if err := Bind(ctx, form, r, options...); err != nil {
			if !errors.As(err, &valueErrs) {
				writeJSON(w, http.StatusBadRequest, Response{Error: err.Error()})
				return
			}
		}

		if !form.State().Valid || len(valueErrs) > 0 {
			feedback := render.Feedback(form, valueErrs.Messages())
			writeJSON(w, http.StatusUnprocessableEntity, snapshot(form, feedback))
			return
		}

		data := form.Data()
		if onSubmit != nil {
			if err := onSubmit(ctx, data); err != nil {
				var rejected FieldErrors
				if errors.As(err, &rejected) {
					feedback := render.MapErrors(form.Definition(), rejected)
					resp := snapshot(form, feedback)
					resp.Valid = false
					writeJSON(w, http.StatusUnprocessableEntity, resp)
					return
				}
				cfg.logger.Error("httpbind: submit handler failed", zap.Error(err))
				writeJSON(w, http.StatusInternalServerError, Response{Error: "submit failed"})
				return
			}
		}

		if err := form.Submit(); err != nil {
			writeJSON(w, http.StatusInternalServerError, Response{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, snapshot(form, render.ErrorMapping{}))
	})
}

func snapshot(form *formstate.Form, feedback render.ErrorMapping) Response {
	state := form.State()
	return Response{
		Valid:      state.Valid,
		Form:       state,
		Fields:     form.Fields(),
		Data:       form.Data(),
		Errors:     feedback.Fields,
		FormErrors: feedback.Form,
	}
}

func writeJSON(w http.ResponseWriter, status int, body Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
