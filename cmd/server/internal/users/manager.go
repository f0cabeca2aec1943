// Package users manages accounts and JWT credentials on top of the user
// collection in the document store.
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/roadmaphq/roadmap-api/cmd/server/internal/models"
	"github.com/roadmaphq/roadmap-api/cmd/server/internal/storage"
)

var (
	// ErrEmailTaken is returned by Register on an email collision.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials covers unknown email and wrong password alike,
	// so login failures do not reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrNotFound is returned when a user id resolves to nothing.
	ErrNotFound = errors.New("user not found")

	// ErrInvalidToken is returned for expired or malformed tokens.
	ErrInvalidToken = errors.New("invalid token")
)

// Store is the persistence surface the manager needs.
type Store interface {
	Insert(ctx context.Context, u models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	SetRoadmapIDs(ctx context.Context, id string, roadmapIDs []string) error
}

// Claims are the JWT claims issued at login.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager registers, authenticates and identifies users.
type Manager struct {
	store  Store
	secret []byte
	expiry time.Duration
}

// NewManager creates the manager. secret signs JWTs and must be set.
func NewManager(store Store, secret []byte, expiry time.Duration) (*Manager, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret required")
	}
	return &Manager{store: store, secret: secret, expiry: expiry}, nil
}

// Register creates an account with a bcrypt password hash. The returned
// user has the hash stripped.
func (m *Manager) Register(ctx context.Context, req models.UserRegister) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsActive:     true,
		Role:         models.RoleUser,
		RoadmapIDs:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = m.store.Insert(ctx, u)
	if errors.Is(err, storage.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}

	u.PasswordHash = ""
	return &u, nil
}

// Authenticate checks email and password, returning the user on success.
func (m *Manager) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := m.store.FindByEmail(ctx, email)
	if errors.Is(err, storage.ErrNoDocuments) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	cpy := *u
	cpy.PasswordHash = ""
	return &cpy, nil
}

// GenerateToken issues an HS256 JWT for the user with the configured expiry.
func (m *Manager) GenerateToken(u *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: u.ID,
		Email:  u.Email,
		Role:   u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.expiry)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken validates a JWT and returns its claims.
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// GetByID fetches a user with the password hash stripped.
func (m *Manager) GetByID(ctx context.Context, id string) (*models.User, error) {
	u, err := m.store.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	cpy := *u
	cpy.PasswordHash = ""
	return &cpy, nil
}

// TrackRoadmap adds a roadmap id to the user's tracked list. Tracking an
// already tracked id is a no-op.
func (m *Manager) TrackRoadmap(ctx context.Context, userID, roadmapID string) error {
	u, err := m.store.FindByID(ctx, userID)
	if errors.Is(err, storage.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	for _, id := range u.RoadmapIDs {
		if id == roadmapID {
			return nil
		}
	}
	return m.store.SetRoadmapIDs(ctx, userID, append(u.RoadmapIDs, roadmapID))
}

// UntrackRoadmap removes a roadmap id from the user's tracked list.
func (m *Manager) UntrackRoadmap(ctx context.Context, userID, roadmapID string) error {
	u, err := m.store.FindByID(ctx, userID)
	if errors.Is(err, storage.ErrNoDocuments) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	kept := make([]string, 0, len(u.RoadmapIDs))
	for _, id := range u.RoadmapIDs {
		if id != roadmapID {
			kept = append(kept, id)
		}
	}
	return m.store.SetRoadmapIDs(ctx, userID, kept)
}
