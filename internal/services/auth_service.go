package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campgo/internal/apperr"
	"campgo/internal/domain"
	"campgo/internal/repos"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = apperr.Unauthorized("invalid email or password")

// Claims carries the principal inside a signed token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type AuthService struct {
	Store  *repos.Store
	Secret []byte
	TTL    time.Duration
	Notify Notifier
	Clock  func() time.Time
}

func NewAuthService(store *repos.Store, secret string, ttl time.Duration, notify Notifier) *AuthService {
	if notify == nil {
		notify = nopNotifier{}
	}
	return &AuthService{Store: store, Secret: []byte(secret), TTL: ttl, Notify: notify, Clock: time.Now}
}

type RegisterInput struct {
	UserName  string `json:"user_name" validate:"required,min=3,max=30"`
	Email     string `json:"email" validate:"required,email,max=50"`
	Password  string `json:"password" validate:"required,min=8,max=64"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
	Phone     string `json:"phone_number" validate:"omitempty,phone"`
}

// Register creates a USER account, sends a welcome mail and returns a token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.Store.Users.ByEmail(ctx, email); err == nil {
		return nil, "", apperr.Conflict("email already registered")
	} else if !repos.IsNotFound(err) {
		return nil, "", storeErr(err, "user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperr.Internal(err, "hash password")
	}
	u := &domain.User{
		ID:        uuid.NewString(),
		UserName:  strings.TrimSpace(in.UserName),
		Email:     email,
		Hash:      string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Role:      domain.RoleUser,
		CreatedAt: stamp(s.Clock),
	}
	if err := s.Store.Users.Create(ctx, u); err != nil {
		return nil, "", storeErr(err, "user")
	}
	tok, err := s.Issue(u)
	if err != nil {
		return nil, "", err
	}
	s.Notify.Welcome(u)
	return u, tok, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	u, err := s.Store.Users.ByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if repos.IsNotFound(err) {
			return nil, "", ErrBadCreds
		}
		return nil, "", storeErr(err, "user")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, "", ErrBadCreds
	}
	tok, err := s.Issue(u)
	if err != nil {
		return nil, "", err
	}
	return u, tok, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.Store.Users.ByID(ctx, userID)
	return u, storeErr(err, "user")
}

// Issue signs an HS256 token for u.
func (s *AuthService) Issue(u *domain.User) (string, error) {
	at := s.Clock()
	claims := Claims{
		Role: u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(at),
			ExpiresAt: jwt.NewNumericDate(at.Add(s.TTL)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.Secret)
	if err != nil {
		return "", apperr.Internal(err, "sign token")
	}
	return tok, nil
}

// Verify parses a bearer token and returns the principal it names.
func (s *AuthService) Verify(raw string) (Principal, error) {
	var claims Claims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.Secret, nil
	}, jwt.WithTimeFunc(s.Clock), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, apperr.Unauthorized("token expired")
		}
		return Principal{}, apperr.Unauthorized("invalid token")
	}
	if claims.Subject == "" {
		return Principal{}, apperr.Unauthorized("invalid token")
	}
	return Principal{UserID: claims.Subject, Role: claims.Role}, nil
}
