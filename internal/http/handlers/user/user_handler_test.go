package user_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"userdir/internal/http/api"
	"userdir/internal/http/handlers/handlerstest"
	"userdir/internal/http/handlers/mocks"
	"userdir/internal/http/handlers/user"
	"userdir/internal/models"
	repo "userdir/internal/repository"
	usersvc "userdir/internal/service/user"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func withID(req *http.Request, id string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func jsonBody(v any) *bytes.Reader {
	body, _ := json.Marshal(v)
	return bytes.NewReader(body)
}

// Register

func TestUserHandler_Register_Success(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	reqBody := user.RegisterRequest{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Username:   "ada",
		Password:   "s3cret!",
		Age:        36,
		Gender:     "female",
		Programmer: true,
	}
	req := httptest.NewRequest(http.MethodPost, "/users/register", jsonBody(reqBody))
	w := httptest.NewRecorder()

	expected := &api.UserSchema{ID: 1, FirstName: "Ada", LastName: "Lovelace", Username: "ada", Age: 36, Gender: "female", Programmer: true, Status: "active"}
	mockService.On("Register", mock.Anything, api.UserInput{
		FirstName:  "Ada",
		LastName:   "Lovelace",
		Username:   "ada",
		Password:   "s3cret!",
		Age:        36,
		Gender:     "female",
		Programmer: true,
	}).Return(expected, nil)

	h.Register(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	var resp api.UserResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, *expected, resp.User)
}

func TestUserHandler_Register_BadJSON(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewReader([]byte("{invalid json")))
	w := httptest.NewRecorder()

	h.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := handlerstest.DecodeErrorResponse(t, w.Body)
	assert.Equal(t, api.ErrBadRequest, resp.Error.Code)
}

func TestUserHandler_Register_ValidationError(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	reqBody := user.RegisterRequest{
		Username: "", // missing required field
		Password: "123",
		Status:   "sleeping",
	}
	req := httptest.NewRequest(http.MethodPost, "/users/register", jsonBody(reqBody))
	w := httptest.NewRecorder()

	h.Register(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := handlerstest.DecodeErrorResponse(t, w.Body)
	assert.Equal(t, api.ErrValidationErr, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "Username")
	assert.Contains(t, resp.Error.Message, "Status")
}

func TestUserHandler_Register_Conflict(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := httptest.NewRequest(http.MethodPost, "/users/register", jsonBody(user.RegisterRequest{Username: "ada", Password: "s3cret!"}))
	w := httptest.NewRecorder()

	mockService.On("Register", mock.Anything, mock.Anything).Return(nil, repo.ErrUserExists)

	h.Register(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	resp := handlerstest.DecodeErrorResponse(t, w.Body)
	assert.Equal(t, api.ErrCodeUserExists, resp.Error.Code)
}

func TestUserHandler_Register_ReservedUsername(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := httptest.NewRequest(http.MethodPost, "/users/register", jsonBody(user.RegisterRequest{Username: "root", Password: "s3cret!"}))
	w := httptest.NewRecorder()

	mockService.On("Register", mock.Anything, mock.Anything).Return(nil, usersvc.ErrReservedUsername)

	h.Register(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	resp := handlerstest.DecodeErrorResponse(t, w.Body)
	assert.Equal(t, api.ErrCodeForbidden, resp.Error.Code)
}

// Login

func TestUserHandler_Login_Success(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := httptest.NewRequest(http.MethodPost, "/users/login", jsonBody(user.LoginRequest{Username: "ada", Password: "pw"}))
	w := httptest.NewRecorder()

	expected := &api.LoginResponse{Token: "tok", User: api.UserSchema{ID: 1, Username: "ada"}}
	mockService.On("Login", mock.Anything, "ada", "pw").Return(expected, nil)

	h.Login(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.LoginResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, *expected, resp)
}

func TestUserHandler_Login_Errors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid credentials", usersvc.ErrInvalidCredentials, http.StatusUnauthorized, api.ErrCodeInvalidCredentials},
		{"banned", usersvc.ErrUserBanned, http.StatusForbidden, api.ErrCodeUserBanned},
		{"internal", errors.New("db error"), http.StatusInternalServerError, api.ErrInternalErr},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := mocks.NewMockUserService(t)
			h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

			req := httptest.NewRequest(http.MethodPost, "/users/login", jsonBody(user.LoginRequest{Username: "ada", Password: "pw"}))
			w := httptest.NewRecorder()

			mockService.On("Login", mock.Anything, "ada", "pw").Return(nil, tc.err)

			h.Login(w, req)

			assert.Equal(t, tc.status, w.Code)
			resp := handlerstest.DecodeErrorResponse(t, w.Body)
			assert.Equal(t, tc.code, resp.Error.Code)
		})
	}
}

// Get

func TestUserHandler_Get_Success(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := withID(httptest.NewRequest(http.MethodGet, "/users/5", nil), "5")
	w := httptest.NewRecorder()

	expected := &api.UserSchema{ID: 5, Username: "ada"}
	mockService.On("Get", mock.Anything, int64(5)).Return(expected, nil)

	h.Get(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.UserResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, *expected, resp.User)
}

func TestUserHandler_Get_BadID(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := withID(httptest.NewRequest(http.MethodGet, "/users/abc", nil), "abc")
	w := httptest.NewRecorder()

	h.Get(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := handlerstest.DecodeErrorResponse(t, w.Body)
	assert.Equal(t, api.ErrBadRequest, resp.Error.Code)
}

func TestUserHandler_Get_NotFound(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := withID(httptest.NewRequest(http.MethodGet, "/users/5", nil), "5")
	w := httptest.NewRecorder()

	mockService.On("Get", mock.Anything, int64(5)).Return(nil, repo.ErrNotFound)

	h.Get(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	resp := handlerstest.DecodeErrorResponse(t, w.Body)
	assert.Equal(t, api.ErrCodeNotFound, resp.Error.Code)
}

// List

func TestUserHandler_List_Filters(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := httptest.NewRequest(http.MethodGet, "/users?status=active&programmer=true&limit=10&offset=20", nil)
	w := httptest.NewRecorder()

	mockService.On("List", mock.Anything, mock.MatchedBy(func(f models.UserFilter) bool {
		return f.Status == "active" && f.Programmer != nil && *f.Programmer && f.Limit == 10 && f.Offset == 20
	})).Return(&api.UserListResponse{Users: []api.UserSchema{{ID: 1}}, Limit: 10, Offset: 20}, nil)

	h.List(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.UserListResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Len(t, resp.Users, 1)
}

func TestUserHandler_List_BadParams(t *testing.T) {
	for _, q := range []string{"programmer=maybe", "limit=-1", "offset=abc"} {
		t.Run(q, func(t *testing.T) {
			mockService := mocks.NewMockUserService(t)
			h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

			req := httptest.NewRequest(http.MethodGet, "/users?"+q, nil)
			w := httptest.NewRecorder()

			h.List(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUserHandler_List_InvalidStatus(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := httptest.NewRequest(http.MethodGet, "/users?status=zombie", nil)
	w := httptest.NewRecorder()

	mockService.On("List", mock.Anything, mock.Anything).Return(nil, usersvc.ErrInvalidStatus)

	h.List(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := handlerstest.DecodeErrorResponse(t, w.Body)
	assert.Equal(t, api.ErrValidationErr, resp.Error.Code)
}

// Update

func TestUserHandler_Update_Success(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := withID(httptest.NewRequest(http.MethodPut, "/users/5", bytes.NewReader([]byte(`{"first_name":"Augusta","age":37}`))), "5")
	w := httptest.NewRecorder()

	mockService.On("Update", mock.Anything, int64(5), mock.MatchedBy(func(p api.UserPatch) bool {
		return p.FirstName != nil && *p.FirstName == "Augusta" &&
			p.Age != nil && *p.Age == 37 &&
			p.LastName == nil && p.Password == nil
	})).Return(&api.UserSchema{ID: 5, FirstName: "Augusta", Age: 37}, nil)

	h.Update(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserHandler_Update_ShortPassword(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := withID(httptest.NewRequest(http.MethodPut, "/users/5", bytes.NewReader([]byte(`{"password":"123"}`))), "5")
	w := httptest.NewRecorder()

	h.Update(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := handlerstest.DecodeErrorResponse(t, w.Body)
	assert.Equal(t, api.ErrValidationErr, resp.Error.Code)
}

// SetStatus

func TestUserHandler_SetStatus_Success(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := withID(httptest.NewRequest(http.MethodPost, "/users/5/status", jsonBody(user.SetStatusRequest{Status: "banned"})), "5")
	w := httptest.NewRecorder()

	expected := &api.UserSchema{ID: 5, Status: "banned"}
	mockService.On("SetStatus", mock.Anything, int64(5), "banned").Return(expected, nil)

	h.SetStatus(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp api.UserResponse
	err := json.NewDecoder(w.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, *expected, resp.User)
}

func TestUserHandler_SetStatus_ValidationError(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := withID(httptest.NewRequest(http.MethodPost, "/users/5/status", jsonBody(user.SetStatusRequest{Status: "asleep"})), "5")
	w := httptest.NewRecorder()

	h.SetStatus(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := handlerstest.DecodeErrorResponse(t, w.Body)
	assert.Equal(t, api.ErrValidationErr, resp.Error.Code)
}

// Delete

func TestUserHandler_Delete(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := withID(httptest.NewRequest(http.MethodDelete, "/users/5", nil), "5")
	w := httptest.NewRecorder()

	mockService.On("Delete", mock.Anything, int64(5)).Return(nil)

	h.Delete(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestUserHandler_Delete_NotFound(t *testing.T) {
	mockService := mocks.NewMockUserService(t)
	h := user.NewUserHandler(handlerstest.NewLogger(), mockService)

	req := withID(httptest.NewRequest(http.MethodDelete, "/users/5", nil), "5")
	w := httptest.NewRecorder()

	mockService.On("Delete", mock.Anything, int64(5)).Return(repo.ErrNotFound)

	h.Delete(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
