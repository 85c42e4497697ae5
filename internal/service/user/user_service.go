package user

import (
	"context"
	"errors"

	"userdir/internal/http/api"
	"userdir/internal/lib"
	"userdir/internal/lib/token"
	"userdir/internal/models"
	repo "userdir/internal/repository"
	"userdir/internal/service"

	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserBanned         = errors.New("user is banned")
	ErrInvalidStatus      = errors.New("invalid user status")
	ErrReservedUsername   = errors.New("username is reserved for an admin account")
	ErrNotAdminName       = errors.New("username is not a configured admin")
	ErrSessionExpired     = errors.New("session is no longer valid, log in again")
)

// dummyHash keeps the cost of a failed login the same for unknown usernames.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserProvider
type UserProvider interface {
	GetByID(ctx context.Context, userID int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]*models.User, error)
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=UserChanger
type UserChanger interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	Update(ctx context.Context, user *models.User) error
	SetStatus(ctx context.Context, userID int64, status string) error
	Delete(ctx context.Context, userID int64) error
}

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name=TokenIssuer
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
	IsAdminName(username string) bool
}

type UserService struct {
	trm          service.TransactionManager
	userProvider UserProvider
	userChanger  UserChanger
	tokenIssuer  TokenIssuer
	hashCost     int
}

func NewUserService(
	trm service.TransactionManager,
	userProvider UserProvider,
	userChanger UserChanger,
	tokenIssuer TokenIssuer,
) *UserService {
	return &UserService{
		trm:          trm,
		userProvider: userProvider,
		userChanger:  userChanger,
		tokenIssuer:  tokenIssuer,
		hashCost:     bcrypt.DefaultCost,
	}
}

// WithHashCost overrides the bcrypt cost, mostly to keep tests fast.
func (s *UserService) WithHashCost(cost int) *UserService {
	s.hashCost = cost
	return s
}

// Register creates a user. Admin usernames can only be taken by an admin caller.
func (s *UserService) Register(ctx context.Context, in api.UserInput) (*api.UserSchema, error) {
	if s.tokenIssuer.IsAdminName(in.Username) && !token.CallerIsAdmin(ctx) {
		return nil, ErrReservedUsername
	}

	return s.create(ctx, in)
}

// RegisterAdmin creates one of the configured admin accounts without an
// authenticated caller. It backs the operator bootstrap command.
func (s *UserService) RegisterAdmin(ctx context.Context, in api.UserInput) (*api.UserSchema, error) {
	if !s.tokenIssuer.IsAdminName(in.Username) {
		return nil, ErrNotAdminName
	}

	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in api.UserInput) (*api.UserSchema, error) {
	const op = "user_service.create"

	if in.Status == "" {
		in.Status = models.StatusActive
	}
	if !models.ValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, lib.Err(op, err)
	}

	user := &models.User{
		FirstName:  in.FirstName,
		LastName:   in.LastName,
		Username:   in.Username,
		Password:   string(hash),
		Age:        in.Age,
		Gender:     in.Gender,
		Programmer: in.Programmer,
		Status:     in.Status,
	}

	err = s.trm.Do(ctx, func(ctx context.Context) error {
		_, err := s.userProvider.GetByUsername(ctx, in.Username)
		if err == nil {
			return repo.ErrUserExists
		}
		if !errors.Is(err, repo.ErrNotFound) {
			return err
		}

		_, err = s.userChanger.Create(ctx, user)
		return err
	})
	if err != nil {
		return nil, err
	}

	resp := toSchema(user)
	return &resp, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*api.LoginResponse, error) {
	const op = "user_service.Login"

	user, err := s.userProvider.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if user.Status == models.StatusBanned {
		return nil, ErrUserBanned
	}

	tok, err := s.tokenIssuer.Issue(user)
	if err != nil {
		return nil, lib.Err(op, err)
	}

	return &api.LoginResponse{
		Token: tok,
		User:  toSchema(user),
	}, nil
}

// CheckSession rejects tokens whose user was deleted, banned or renamed, or
// whose role no longer matches the username.
func (s *UserService) CheckSession(ctx context.Context, claims *token.Claims) error {
	userID, err := claims.UserID()
	if err != nil {
		return ErrSessionExpired
	}

	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrSessionExpired
		}
		return err
	}

	if user.Username != claims.Username || s.tokenIssuer.IsAdminName(user.Username) != claims.IsAdmin() {
		return ErrSessionExpired
	}
	if user.Status == models.StatusBanned {
		return ErrUserBanned
	}

	return nil
}

func (s *UserService) Get(ctx context.Context, userID int64) (*api.UserSchema, error) {
	user, err := s.userProvider.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toSchema(user)
	return &resp, nil
}

func (s *UserService) List(ctx context.Context, filter models.UserFilter) (*api.UserListResponse, error) {
	if filter.Status != "" && !models.ValidStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultListLimit
	}
	if filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	users, err := s.userProvider.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &api.UserListResponse{
		Users:  make([]api.UserSchema, 0, len(users)),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	for _, u := range users {
		resp.Users = append(resp.Users, toSchema(u))
	}

	return resp, nil
}

// Update applies patch to the user. A username change invalidates the user's
// existing tokens; they have to log in again.
func (s *UserService) Update(ctx context.Context, userID int64, patch api.UserPatch) (*api.UserSchema, error) {
	const op = "user_service.Update"

	if patch.Username != nil && s.tokenIssuer.IsAdminName(*patch.Username) && !token.CallerIsAdmin(ctx) {
		return nil, ErrReservedUsername
	}

	resp := &api.UserSchema{}

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		user, err := s.userProvider.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if patch.FirstName != nil {
			user.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			user.LastName = *patch.LastName
		}
		if patch.Username != nil {
			user.Username = *patch.Username
		}
		if patch.Age != nil {
			user.Age = *patch.Age
		}
		if patch.Gender != nil {
			user.Gender = *patch.Gender
		}
		if patch.Programmer != nil {
			user.Programmer = *patch.Programmer
		}
		if patch.Password != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte(*patch.Password), s.hashCost)
			if err != nil {
				return lib.Err(op, err)
			}
			user.Password = string(hash)
		}

		if err := s.userChanger.Update(ctx, user); err != nil {
			return err
		}

		*resp = toSchema(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *UserService) SetStatus(ctx context.Context, userID int64, status string) (*api.UserSchema, error) {
	if !models.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	resp := &api.UserSchema{}

	err := s.trm.Do(ctx, func(ctx context.Context) error {
		if err := s.userChanger.SetStatus(ctx, userID, status); err != nil {
			return err
		}

		user, err := s.userProvider.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		*resp = toSchema(user)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return resp, nil
}

func (s *UserService) Delete(ctx context.Context, userID int64) error {
	return s.userChanger.Delete(ctx, userID)
}

func toSchema(u *models.User) api.UserSchema {
	return api.UserSchema{
		ID:         u.ID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
		Age:        u.Age,
		Gender:     u.Gender,
		Programmer: u.Programmer,
		Status:     u.Status,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
