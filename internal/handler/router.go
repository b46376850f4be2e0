package handler

import (
	"net/http"
	"regexp"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/movsyannikov/tasktracker/internal/model"
	"github.com/movsyannikov/tasktracker/internal/schema"
	"github.com/movsyannikov/tasktracker/pkg/respond"
)

var (
	taskIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)
	emailPattern  = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

func idField() schema.Field {
	return schema.Field{
		Name: "id", In: schema.InParams, Type: schema.TypeString, Required: true,
		Pattern: taskIDPattern, PatternMsg: "must be a valid task id",
	}
}

func titleField(required bool) schema.Field {
	return schema.Field{
		Name: "title", In: schema.InBody, Type: schema.TypeString,
		Required: required, MinLen: 1, MaxLen: 100,
	}
}

func statusField(in schema.Source, required bool) schema.Field {
	return schema.Field{
		Name: "status", In: in, Type: schema.TypeString,
		Required: required, Enum: model.Statuses,
	}
}

// NewRouter mounts the full route table. Each route gets its own schema
// value, constructed right here at registration; rateMW (optional)
// guards the credential endpoints.
func NewRouter(p *Pipeline, users *UserHandler, tasks *TaskHandler,
	authMW func(http.Handler) http.Handler, rateMW func(http.Handler) http.Handler) *chi.Mux {

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respond.Error(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/users", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if rateMW != nil {
				r.Use(rateMW)
			}

			r.Post("/", p.Handle(schema.New(
				schema.Field{Name: "name", In: schema.InBody, Type: schema.TypeString, Required: true, MaxLen: 50},
				schema.Field{Name: "email", In: schema.InBody, Type: schema.TypeString, Required: true, Pattern: emailPattern, PatternMsg: "must be a valid email address"},
				schema.Field{Name: "password", In: schema.InBody, Type: schema.TypeString, Required: true, MinLen: 8, MaxLen: 72},
			), users.Register))

			r.Post("/login", p.Handle(schema.New(
				schema.Field{Name: "email", In: schema.InBody, Type: schema.TypeString, Required: true},
				schema.Field{Name: "password", In: schema.InBody, Type: schema.TypeString, Required: true},
			), users.Login))
		})

		r.Group(func(r chi.Router) {
			r.Use(authMW)
			r.Get("/me", p.Handle(schema.New(), users.Me))
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(authMW)

		r.Get("/", p.Handle(schema.New(
			schema.Field{Name: "page", In: schema.InQuery, Type: schema.TypeInt, Min: schema.IntP(1)},
			schema.Field{Name: "limit", In: schema.InQuery, Type: schema.TypeInt, Min: schema.IntP(1)},
			statusField(schema.InQuery, false),
			schema.Field{Name: "search", In: schema.InQuery, Type: schema.TypeString, MaxLen: 100},
		), tasks.List))

		r.Post("/", p.Handle(schema.New(
			titleField(true),
			schema.Field{Name: "description", In: schema.InBody, Type: schema.TypeString, MaxLen: 2000},
			statusField(schema.InBody, false),
			schema.Field{Name: "dueDate", In: schema.InBody, Type: schema.TypeDate},
		), tasks.Create))

		r.Post("/quick", p.Handle(schema.New(
			titleField(true),
		), tasks.CreateQuick))

		r.Patch("/complete-all", p.Handle(schema.New(), tasks.CompleteAll))

		r.Delete("/", p.Handle(schema.New(
			statusField(schema.InQuery, true),
			schema.Field{Name: "confirm", In: schema.InQuery, Type: schema.TypeBool, Required: true},
		), tasks.DeleteByStatus))

		r.Get("/{id}", p.Handle(schema.New(idField()), tasks.Get))

		r.Put("/{id}", p.Handle(schema.New(
			idField(),
			titleField(true),
			schema.Field{Name: "description", In: schema.InBody, Type: schema.TypeString, MaxLen: 2000},
			statusField(schema.InBody, true),
			schema.Field{Name: "dueDate", In: schema.InBody, Type: schema.TypeDate},
		), tasks.Replace))

		r.Patch("/{id}", p.Handle(schema.New(
			idField(),
			titleField(false),
			schema.Field{Name: "description", In: schema.InBody, Type: schema.TypeString, MaxLen: 2000},
			statusField(schema.InBody, false),
			schema.Field{Name: "dueDate", In: schema.InBody, Type: schema.TypeDate},
		).Refine("must contain at least one recognized field", func(v schema.Values) bool {
			return v.Has("title") || v.Has("description") || v.Has("status") || v.Has("dueDate")
		}), tasks.Patch))

		r.Delete("/{id}", p.Handle(schema.New(idField()), tasks.Delete))
	})

	return r
}
