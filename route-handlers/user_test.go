package routehandlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coreybb/roster/models"
	"github.com/coreybb/roster/registration"
	"github.com/coreybb/roster/webutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUserService struct {
	createOut *models.User
	createErr error

	listOut []models.User
	listErr error

	getOut *models.User
	getErr error
}

func (f *fakeUserService) CreateUser(ctx context.Context, email, firstName string) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUserService) ListUsers(ctx context.Context) ([]models.User, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeUserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func newTestRouter(service UserService) http.Handler {
	h := NewUserHandler(service)
	r := chi.NewRouter()
	r.Get("/api/users", webutil.MakeHandler(h.HandleGetUsers))
	r.Post("/api/users", webutil.MakeHandler(h.HandleCreateUser))
	r.Get("/api/users/{id}", webutil.MakeHandler(h.HandleGetUser))
	return r
}

func TestHandleCreateUser_Created(t *testing.T) {
	service := &fakeUserService{
		createOut: &models.User{ID: 1, Email: "a@b.com", FirstName: "A"},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"email":"a@b.com","firstname":"A"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "a@b.com", got.Email)
	assert.Equal(t, "A", got.FirstName)
}

func TestHandleCreateUser_Rejected(t *testing.T) {
	service := &fakeUserService{createErr: registration.ErrEmailRejected}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"email":"spam@b.com","firstname":"S"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)

	// No detail beyond the generic message leaks to the caller.
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Forbidden", body["error"])
}

func TestHandleCreateUser_FatalError(t *testing.T) {
	service := &fakeUserService{createErr: errBoom{}}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(`{"email":"a@b.com","firstname":"A"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Internal Server Error", body["error"])
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandleCreateUser_BadPayload(t *testing.T) {
	router := newTestRouter(&fakeUserService{})

	for name, payload := range map[string]string{
		"malformed json":  `{`,
		"unknown field":   `{"email":"a@b.com","firstname":"A","surname":"B"}`,
		"missing email":   `{"firstname":"A"}`,
		"missing name":    `{"email":"a@b.com"}`,
		"empty email":     `{"email":"","firstname":"A"}`,
		"empty firstname": `{"email":"a@b.com","firstname":""}`,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/users", strings.NewReader(payload))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleGetUsers(t *testing.T) {
	service := &fakeUserService{
		listOut: []models.User{
			{ID: 1, Email: "a@b.com", FirstName: "A"},
			{ID: 2, Email: "c@d.com", FirstName: "C"},
		},
	}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, service.listOut, got)
}

func TestHandleGetUsers_EmptyListIsJSONArray(t *testing.T) {
	router := newTestRouter(&fakeUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandleGetUsers_FatalError(t *testing.T) {
	router := newTestRouter(&fakeUserService{listErr: errBoom{}})

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleGetUser(t *testing.T) {
	service := &fakeUserService{getOut: &models.User{ID: 7, Email: "a@b.com", FirstName: "A"}}
	router := newTestRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/api/users/7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.ID)
}

func TestHandleGetUser_BadID(t *testing.T) {
	router := newTestRouter(&fakeUserService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGetUser_NotFound(t *testing.T) {
	router := newTestRouter(&fakeUserService{getErr: sql.ErrNoRows})

	req := httptest.NewRequest(http.MethodGet, "/api/users/404", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
