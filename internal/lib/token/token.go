package token

import (
	"context"
	"errors"
	"strconv"
	"time"

	"userdir/internal/lib/config"
	"userdir/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// UserID returns the numeric subject of the token.
func (c *Claims) UserID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

type ctxKey struct{}

// NewContext returns ctx carrying the caller's claims.
func NewContext(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

func FromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*Claims)
	return claims, ok && claims != nil
}

// CallerIsAdmin reports whether ctx carries admin claims.
func CallerIsAdmin(ctx context.Context) bool {
	claims, ok := FromContext(ctx)
	return ok && claims.IsAdmin()
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	admins map[string]struct{}
	now    func() time.Time
}

func NewIssuer(cfg config.Auth) *Issuer {
	admins := make(map[string]struct{}, len(cfg.Admins))
	for _, a := range cfg.Admins {
		admins[a] = struct{}{}
	}

	return &Issuer{
		secret: []byte(cfg.JWTSecret),
		ttl:    cfg.TokenTTL,
		admins: admins,
		now:    time.Now,
	}
}

// IsAdminName reports whether username is one of the configured admin accounts.
// Those names are reserved: only an admin may register or rename into them.
func (i *Issuer) IsAdminName(username string) bool {
	_, ok := i.admins[username]
	return ok
}

// Issue signs an HS256 token for user. Usernames listed as admins get the admin role.
func (i *Issuer) Issue(user *models.User) (string, error) {
	role := RoleUser
	if i.IsAdminName(user.Username) {
		role = RoleAdmin
	}

	now := i.now()
	claims := Claims{
		Username: user.Username,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

func (i *Issuer) Parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Role != RoleAdmin && claims.Role != RoleUser {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
