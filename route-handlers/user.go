package routehandlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/coreybb/roster/models"
	"github.com/coreybb/roster/registration"
	"github.com/coreybb/roster/webutil"
	"github.com/go-chi/chi/v5"
)

// UserService is the slice of the registration service the handlers need.
type UserService interface {
	CreateUser(ctx context.Context, email, firstName string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type UserHandler struct {
	Service UserService
}

func NewUserHandler(service UserService) *UserHandler {
	return &UserHandler{Service: service}
}

func (h *UserHandler) HandleGetUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.Service.ListUsers(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve users: %w", err)
	}
	if users == nil {
		users = []models.User{}
	}
	webutil.RespondWithJSON(w, http.StatusOK, users)
	return nil
}

func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) error {
	var requestData struct {
		Email     string `json:"email"`
		FirstName string `json:"firstname"`
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&requestData); err != nil {
		return webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if requestData.Email == "" {
		return webutil.ErrBadRequest("Email is required")
	}
	if requestData.FirstName == "" {
		return webutil.ErrBadRequest("First name is required")
	}

	user, err := h.Service.CreateUser(r.Context(), requestData.Email, requestData.FirstName)
	if err != nil {
		if errors.Is(err, registration.ErrEmailRejected) {
			// The rejection body carries no detail beyond the generic message.
			return webutil.ErrForbiddenWrap("", err)
		}
		return fmt.Errorf("failed to create user %s: %w", requestData.Email, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, user)
	return nil
}

func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) error {
	rawID := chi.URLParam(r, "id") // "id" is the common constant name in routes.go
	userID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return webutil.ErrBadRequest("Invalid user ID format")
	}

	user, err := h.Service.GetUser(r.Context(), userID)
	if err != nil {
		// sql.ErrNoRows falls through to MakeHandler's 404 mapping.
		return err
	}

	webutil.RespondWithJSON(w, http.StatusOK, user)
	return nil
}
