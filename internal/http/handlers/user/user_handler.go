package user

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"userdir/internal/http/api"
	"userdir/internal/lib/sl"
	"userdir/internal/models"
	repo "userdir/internal/repository"
	usersvc "userdir/internal/service/user"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=userService --structname=MockUserService --filename=MockUserService.go --output=../mocks --outpkg=mocks
type userService interface {
	Register(ctx context.Context, in api.UserInput) (*api.UserSchema, error)
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
	Get(ctx context.Context, userID int64) (*api.UserSchema, error)
	List(ctx context.Context, filter models.UserFilter) (*api.UserListResponse, error)
	Update(ctx context.Context, userID int64, patch api.UserPatch) (*api.UserSchema, error)
	SetStatus(ctx context.Context, userID int64, status string) (*api.UserSchema, error)
	Delete(ctx context.Context, userID int64) error
}

type UserHandler struct {
	log      *slog.Logger
	service  userService
	validate *validator.Validate
}

func NewUserHandler(log *slog.Logger, s userService) *UserHandler {
	return &UserHandler{
		log:      log,
		service:  s,
		validate: validator.New(),
	}
}

type RegisterRequest struct {
	FirstName  string `json:"first_name" validate:"max=255"`
	LastName   string `json:"last_name"  validate:"max=255"`
	Username   string `json:"username"   validate:"required,max=255"`
	Password   string `json:"password"   validate:"required,min=6,max=72"`
	Age        int    `json:"age"        validate:"gte=0,lte=150"`
	Gender     string `json:"gender"     validate:"max=255"`
	Programmer bool   `json:"programmer"`
	Status     string `json:"status"     validate:"omitempty,oneof=active inactive banned"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateRequest struct {
	FirstName  *string `json:"first_name" validate:"omitempty,max=255"`
	LastName   *string `json:"last_name"  validate:"omitempty,max=255"`
	Username   *string `json:"username"   validate:"omitempty,min=1,max=255"`
	Password   *string `json:"password"   validate:"omitempty,min=6,max=72"`
	Age        *int    `json:"age"        validate:"omitempty,gte=0,lte=150"`
	Gender     *string `json:"gender"     validate:"omitempty,max=255"`
	Programmer *bool   `json:"programmer"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive banned"`
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Register"
	log := h.requestLog(r, op)

	var input RegisterRequest
	if !h.decode(w, r, log, &input) {
		return
	}

	resp, err := h.service.Register(r.Context(), api.UserInput{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Username:   input.Username,
		Password:   input.Password,
		Age:        input.Age,
		Gender:     input.Gender,
		Programmer: input.Programmer,
		Status:     input.Status,
	})
	if err != nil {
		h.fail(w, r, log, err)
		return
	}

	log.Info("user registered", slog.Int64("user_id", resp.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, api.UserResponse{User: *resp})
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Login"
	log := h.requestLog(r, op)

	var input LoginRequest
	if !h.decode(w, r, log, &input) {
		return
	}

	resp, err := h.service.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}

	log.Info("user logged in", slog.Int64("user_id", resp.User.ID))
	render.JSON(w, r, resp)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Get"
	log := h.requestLog(r, op)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), userID)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}

	render.JSON(w, r, api.UserResponse{User: *resp})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.List"
	log := h.requestLog(r, op)

	q := r.URL.Query()
	filter := models.UserFilter{Status: q.Get("status")}

	if v := q.Get("programmer"); v != "" {
		programmer, err := strconv.ParseBool(v)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, api.Error(api.ErrBadRequest, "programmer must be a boolean"))
			return
		}
		filter.Programmer = &programmer
	}

	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, api.Error(api.ErrBadRequest, name+" must be a non-negative integer"))
			return
		}
		*dst = n
	}

	resp, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}

	render.JSON(w, r, resp)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Update"
	log := h.requestLog(r, op)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var input UpdateRequest
	if !h.decode(w, r, log, &input) {
		return
	}

	resp, err := h.service.Update(r.Context(), userID, api.UserPatch{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Username:   input.Username,
		Password:   input.Password,
		Age:        input.Age,
		Gender:     input.Gender,
		Programmer: input.Programmer,
	})
	if err != nil {
		h.fail(w, r, log, err)
		return
	}

	log.Info("user updated", slog.Int64("user_id", userID))
	render.JSON(w, r, api.UserResponse{User: *resp})
}

func (h *UserHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.SetStatus"
	log := h.requestLog(r, op)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	var input SetStatusRequest
	if !h.decode(w, r, log, &input) {
		return
	}

	resp, err := h.service.SetStatus(r.Context(), userID, input.Status)
	if err != nil {
		h.fail(w, r, log, err)
		return
	}

	log.Info("user status changed", slog.Int64("user_id", userID), slog.String("status", input.Status))
	render.JSON(w, r, api.UserResponse{User: *resp})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.Delete"
	log := h.requestLog(r, op)

	userID, ok := h.userID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		h.fail(w, r, log, err)
		return
	}

	log.Info("user deleted", slog.Int64("user_id", userID))
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) requestLog(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// decode reads and validates a JSON body, answering 400 itself on failure.
func (h *UserHandler) decode(w http.ResponseWriter, r *http.Request, log *slog.Logger, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		log.Error("failed to decode request body", sl.Err(err))

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error(api.ErrBadRequest, "bad request"))
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		log.Info("invalid request", sl.Err(err))

		var validateErr validator.ValidationErrors
		if !errors.As(err, &validateErr) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, api.Error(api.ErrBadRequest, "bad request"))
			return false
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.ValidationError(validateErr))
		return false
	}

	return true
}

func (h *UserHandler) userID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || userID <= 0 {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error(api.ErrBadRequest, "id must be a positive integer"))
		return 0, false
	}
	return userID, true
}

func (h *UserHandler) fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		log.Info("user not found", sl.Err(err))
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, api.Error(api.ErrCodeNotFound, err.Error()))
	case errors.Is(err, repo.ErrUserExists):
		log.Info("user already exists", sl.Err(err))
		render.Status(r, http.StatusConflict)
		render.JSON(w, r, api.Error(api.ErrCodeUserExists, err.Error()))
	case errors.Is(err, usersvc.ErrInvalidStatus):
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, api.Error(api.ErrValidationErr, err.Error()))
	case errors.Is(err, usersvc.ErrReservedUsername):
		log.Info("reserved username rejected", sl.Err(err))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, api.Error(api.ErrCodeForbidden, err.Error()))
	case errors.Is(err, usersvc.ErrInvalidCredentials):
		log.Info("login rejected", sl.Err(err))
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, api.Error(api.ErrCodeInvalidCredentials, err.Error()))
	case errors.Is(err, usersvc.ErrUserBanned):
		log.Info("banned user rejected", sl.Err(err))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, api.Error(api.ErrCodeUserBanned, err.Error()))
	default:
		log.Error("error while handling user request", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, api.InternalError())
	}
}
