package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/movsyannikov/tasktracker/internal/auth"
	"github.com/movsyannikov/tasktracker/internal/model"
	"github.com/movsyannikov/tasktracker/internal/schema"
)

// UserService is the slice of the service layer the user handlers need.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (model.User, string, error)
	Login(ctx context.Context, email, password string) (model.User, string, error)
}

type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{service: service}
}

type authResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

func (h *UserHandler) Register(r *http.Request, in schema.Values) (int, any, any, error) {
	user, token, err := h.service.Register(r.Context(),
		in.String("name"), in.String("email"), in.String("password"))
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusCreated, authResponse{User: user, Token: token}, nil, nil
}

func (h *UserHandler) Login(r *http.Request, in schema.Values) (int, any, any, error) {
	user, token, err := h.service.Login(r.Context(), in.String("email"), in.String("password"))
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusOK, authResponse{User: user, Token: token}, nil, nil
}

// Me echoes the identity the auth middleware resolved; the password hash
// never serializes.
func (h *UserHandler) Me(r *http.Request, _ schema.Values) (int, any, any, error) {
	user, err := identity(r)
	if err != nil {
		return 0, nil, nil, err
	}
	return http.StatusOK, user, nil, nil
}

// identity pulls the authenticated user off the context. Reaching a
// protected handler without one is a wiring bug, not a client error.
func identity(r *http.Request) (model.User, error) {
	user, ok := auth.UserFrom(r.Context())
	if !ok {
		return model.User{}, errors.New("no authenticated user on request context")
	}
	return user, nil
}
