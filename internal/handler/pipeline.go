package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/movsyannikov/tasktracker/internal/auth"
	"github.com/movsyannikov/tasktracker/internal/repo"
	"github.com/movsyannikov/tasktracker/internal/schema"
	"github.com/movsyannikov/tasktracker/internal/service"
	"github.com/movsyannikov/tasktracker/pkg/respond"
)

// HandlerFunc is a pipeline-stage handler: it only ever sees validated,
// coerced input and returns either a payload (with optional meta) or an
// error for the terminal translator.
type HandlerFunc func(r *http.Request, in schema.Values) (int, any, any, error)

// Pipeline wraps handlers with the per-route request pipeline: decode →
// validate → invoke → envelope. Every failure mode ends up in the same
// error shape.
type Pipeline struct {
	logger     *zap.Logger
	production bool
}

func NewPipeline(logger *zap.Logger, production bool) *Pipeline {
	return &Pipeline{logger: logger, production: production}
}

func (p *Pipeline) Handle(sch *schema.Schema, fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := schema.Input{
			Params: routeParams(r),
			Query:  r.URL.Query(),
		}

		if sch.HasBody() && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&in.Body); err != nil {
				respond.Error(w, r, http.StatusBadRequest, "Invalid JSON payload")
				return
			}
		}

		vals, violations := sch.Validate(in)
		if len(violations) > 0 {
			respond.ValidationError(w, r, toDetails(violations))
			return
		}

		code, data, meta, err := fn(r, vals)
		if err != nil {
			p.translateError(w, r, err)
			return
		}

		if meta != nil {
			respond.SuccessMeta(w, r, code, data, meta)
			return
		}
		respond.Success(w, r, code, data)
	}
}

// translateError is the single terminal mapping from internal failures to
// wire responses. Anything unrecognized becomes a 500; its detail leaks
// only outside production.
func (p *Pipeline) translateError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		respond.Error(w, r, http.StatusNotFound, "Task not found")
	case errors.Is(err, repo.ErrConflict):
		respond.Error(w, r, http.StatusBadRequest, "Email already exists")
	case errors.Is(err, auth.ErrInvalidCredentials):
		respond.Error(w, r, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrEmptyPatch):
		respond.ValidationError(w, r, []respond.FieldError{
			{Field: "body", Message: "must contain at least one recognized field"},
		})
	case errors.Is(err, service.ErrConfirmationRequired):
		respond.ValidationError(w, r, []respond.FieldError{
			{Field: "query.confirm", Message: "must be true to confirm bulk deletion"},
		})
	default:
		p.logger.Error("unhandled error", zap.String("path", r.URL.Path), zap.Error(err))
		msg := "Internal server error"
		if !p.production {
			msg = msg + ": " + err.Error()
		}
		respond.Error(w, r, http.StatusInternalServerError, msg)
	}
}

func routeParams(r *http.Request) map[string]string {
	params := map[string]string{}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			params[key] = rctx.URLParams.Values[i]
		}
	}
	return params
}

func toDetails(violations schema.Violations) []respond.FieldError {
	details := make([]respond.FieldError, len(violations))
	for i, v := range violations {
		details[i] = respond.FieldError{Field: v.Field, Message: v.Message}
	}
	return details
}
