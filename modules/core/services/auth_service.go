package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/plantops/plantops/modules/core/domain/aggregates/user"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/constants"
)

var (
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidInput       = errors.New("name, email and password are required")
)

const pgUniqueViolation = "23505"

// Claims are the JWT claims issued at register and login.
type Claims struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type AuthOptions struct {
	Secret string
	TTL    time.Duration
}

type RegisterInput struct {
	Name     string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

type AuthResult struct {
	Token string     `json:"token"`
	User  *user.User `json:"user"`
}

type AuthService struct {
	users  user.Repository
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users user.Repository, opts AuthOptions) *AuthService {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		users:  users,
		secret: []byte(opts.Secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := constants.Validate.Struct(in); err != nil {
		return nil, ErrInvalidInput
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, user.ErrNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u, err := s.users.Create(ctx, user.CreateParams{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return nil, ErrUserExists
	}
	if err != nil {
		return nil, err
	}
	composables.UseLogger(ctx).WithField("user_id", u.ID).Info("user registered")
	return s.result(u)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		composables.UseLogger(ctx).WithFields(logrus.Fields{"user_id": u.ID}).Warn("login rejected")
		return nil, ErrInvalidCredentials
	}
	return s.result(u)
}

// Me loads the user the request's token was issued for.
func (s *AuthService) Me(ctx context.Context) (*user.User, error) {
	p, err := composables.UsePrincipal(ctx)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.users.GetByID(ctx, p.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *AuthService) IssueToken(u *user.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify implements middleware.TokenVerifier.
func (s *AuthService) Verify(token string) (*composables.Principal, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return nil, errors.Join(ErrInvalidToken, err)
	}
	return &composables.Principal{UserID: claims.UserID, Email: claims.Email}, nil
}

func (s *AuthService) result(u *user.User) (*AuthResult, error) {
	token, err := s.IssueToken(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: u}, nil
}
