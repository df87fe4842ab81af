package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-chi/jwtauth"
	"golang.org/x/crypto/bcrypt"

	"github.com/troycsc/desk-services/internal/cardsvc/models"
	"github.com/troycsc/desk-services/internal/cardsvc/store"
)

const tokenTTL = 12 * time.Hour

// AuthService manages desk staff accounts and issues the bearer tokens the
// staff routes check.
type AuthService struct {
	users     UserStore
	tokenAuth *jwtauth.JWTAuth
	now       func() time.Time
}

func NewAuthService(users UserStore, tokenAuth *jwtauth.JWTAuth) *AuthService {
	return &AuthService{users: users, tokenAuth: tokenAuth, now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	name, email = strings.TrimSpace(name), strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, invalid("Name and email are required")
	}
	if len(password) < 8 {
		return nil, invalid("Password must be at least 8 characters")
	}
	if role == "" {
		role = models.RoleStaff
	}
	if role != models.RoleStaff && role != models.RoleAdmin {
		return nil, invalid("Invalid role")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks the password and returns a signed token for the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	if s.tokenAuth == nil {
		return "", nil, errors.New("authentication is not configured")
	}

	u, err := s.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !u.IsActive || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	_, token, err := s.tokenAuth.Encode(map[string]interface{}{
		"user_id": u.ID,
		"name":    u.Name,
		"role":    u.Role,
		"exp":     s.now().Add(tokenTTL).Unix(),
	})
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// StaffFromClaims reads the identity Login put into the token.
func StaffFromClaims(claims map[string]interface{}) Staff {
	id, _ := claims["user_id"].(string)
	name, _ := claims["name"].(string)
	return Staff{ID: id, Name: name}
}
