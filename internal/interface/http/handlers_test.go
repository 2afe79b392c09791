package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-library-rental/internal/application"
	"github.com/oksasatya/go-library-rental/internal/domain/entity"
	"github.com/oksasatya/go-library-rental/internal/domain/errs"
	"github.com/oksasatya/go-library-rental/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

type envelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

type users struct {
	byID map[int64]entity.User
	next int64
}

func (u *users) Create(_ context.Context, x *entity.User) error {
	u.next++
	x.ID = u.next
	x.CreatedAt = time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	x.UpdatedAt = x.CreatedAt
	u.byID[x.ID] = *x
	return nil
}

func (u *users) GetByID(_ context.Context, id int64) (*entity.User, error) {
	x, ok := u.byID[id]
	if !ok {
		return nil, errs.NotFound("user %d not found", id)
	}
	return &x, nil
}

func (u *users) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, x := range u.byID {
		if x.Email == email {
			return &x, nil
		}
	}
	return nil, errs.NotFound("user with email %s not found", email)
}

func (u *users) List(context.Context) ([]entity.User, error) {
	out := []entity.User{}
	for id := int64(1); id <= u.next; id++ {
		if x, ok := u.byID[id]; ok {
			out = append(out, x)
		}
	}
	return out, nil
}

func (u *users) Update(_ context.Context, x *entity.User) error {
	u.byID[x.ID] = *x
	return nil
}

func (u *users) Delete(_ context.Context, id int64) error {
	if _, ok := u.byID[id]; !ok {
		return errs.NotFound("user %d not found", id)
	}
	delete(u.byID, id)
	return nil
}

func userRouter() *gin.Engine {
	h := NewUserHandler(application.NewUserService(&users{byID: map[int64]entity.User{}}, nil), nil)
	r := gin.New()
	r.POST("/users", h.Create)
	r.GET("/users", h.List)
	r.GET("/users/:id", h.Get)
	r.PUT("/users/:id", h.Update)
	r.DELETE("/users/:id", h.Delete)
	return r
}

func TestUserHandler_CRUD(t *testing.T) {
	r := userRouter()

	code, env := do(t, r, http.MethodPost, "/users", map[string]string{"name": "Ada Lovelace", "email": "Ada@Example.com"})
	require.Equal(t, http.StatusCreated, code)
	var created application.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "ada@example.com", created.Email)

	code, env = do(t, r, http.MethodPost, "/users", map[string]string{"name": "Ada Again", "email": "ada@example.com"})
	assert.Equal(t, http.StatusConflict, code)
	assert.False(t, env.Success)

	code, _ = do(t, r, http.MethodPut, "/users/1", map[string]string{"name": "Augusta Ada"})
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/users/1", nil)
	require.Equal(t, http.StatusOK, code)
	var got application.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "Augusta Ada", got.Name)

	code, _ = do(t, r, http.MethodDelete, "/users/1", nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = do(t, r, http.MethodGet, "/users/1", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "user 1 not found", env.Message)
}

func TestUserHandler_BadInput(t *testing.T) {
	r := userRouter()

	code, env := do(t, r, http.MethodPost, "/users", map[string]string{"name": "A", "email": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "must be a valid email", env.Error["email"])
	assert.Equal(t, "must be at least 2 characters", env.Error["name"])

	code, env = do(t, r, http.MethodPost, "/users", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid json", env.Error["payload"])

	code, env = do(t, r, http.MethodGet, "/users/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "must be a positive integer", env.Error["id"])
}

func TestReservationHandler_BindingRejectsBeforeService(t *testing.T) {
	h := NewReservationHandler(nil, nil)
	r := gin.New()
	r.POST("/reservations", h.Create)
	r.POST("/reservations/:id/return", h.Return)

	code, env := do(t, r, http.MethodPost, "/reservations", map[string]any{
		"user_id": 1, "book_external_id": 101, "rental_days": -2, "start_date": "2025/11/20",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "must be greater than 0", env.Error["rental_days"])
	assert.Equal(t, "must be a date in YYYY-MM-DD format", env.Error["start_date"])

	code, env = do(t, r, http.MethodPost, "/reservations/7/return", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "is required", env.Error["return_date"])

	code, _ = do(t, r, http.MethodPost, "/reservations/0/return", map[string]any{"return_date": "2025-11-20"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestWriteError_Mapping(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{errs.Validation("rental days must be positive, got 0"), http.StatusBadRequest, "rental days must be positive, got 0"},
		{errs.NotFound("book 9 not found"), http.StatusNotFound, "book 9 not found"},
		{errs.Conflict("book 101 is not available"), http.StatusConflict, "book 101 is not available"},
		{errors.New("connection refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { writeError(c, nil, tc.err) })
		code, env := do(t, r, http.MethodGet, "/", nil)
		assert.Equal(t, tc.code, code)
		assert.Equal(t, tc.code, env.Status)
		assert.Equal(t, tc.msg, env.Message)
	}
}

func TestHealth(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	r := gin.New()
	r.GET("/health", NewHealthHandler(map[string]Pinger{"postgres": ok}).Health)
	r.GET("/sick", NewHealthHandler(map[string]Pinger{"postgres": ok, "redis": down}).Health)

	code, env := do(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = do(t, r, http.MethodGet, "/sick", nil)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "dial tcp: refused", env.Error["redis"])
	assert.Equal(t, "ok", env.Error["postgres"])
}
