package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kendall-kelly/local-services-api/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// RegisterInput carries the fields of a registration form
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
	Location string
}

// IdentityService registers users, authenticates credentials and resolves sessions
type IdentityService struct {
	db     *gorm.DB
	hasher PasswordHasher
	store  SessionStore
	signer *SessionSigner
	ttl    time.Duration

	// dummyHash is compared against when the email is unknown so both
	// failure paths cost one bcrypt comparison.
	dummyHash string
}

// NewIdentityService creates an identity service
func NewIdentityService(db *gorm.DB, hasher PasswordHasher, store SessionStore, signer *SessionSigner, ttl time.Duration) *IdentityService {
	dummy, err := hasher.Hash(uuid.NewString())
	if err != nil {
		log.Warn().Err(err).Msg("failed to prepare dummy password hash")
	}
	return &IdentityService{
		db:        db,
		hasher:    hasher,
		store:     store,
		signer:    signer,
		ttl:       ttl,
		dummyHash: dummy,
	}
}

// NormalizeEmail trims and lower-cases an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer or provider account.
// Admin accounts are only created by Bootstrap.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	email := NormalizeEmail(in.Email)
	role := strings.ToLower(strings.TrimSpace(in.Role))
	if role == "" {
		role = models.RoleCustomer
	}

	if username == "" {
		return nil, invalidInput("Username is required")
	}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, invalidInput("A valid email address is required")
	}
	if !models.IsValidRole(role) || role == models.RoleAdmin {
		return nil, invalidInput("Role must be customer or provider")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Location:     strings.TrimSpace(in.Location),
	}
	if err := createUser(ctx, s.db, &user); err != nil {
		return nil, err
	}

	log.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user registered")
	return &user, nil
}

// createUser inserts a user, reporting which unique field collided
func createUser(ctx context.Context, db *gorm.DB, user *models.User) error {
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check email: %w", err)
		}
		if count > 0 {
			return newError(ErrDuplicateEmail, "A user with this email already exists")
		}
		if err := tx.Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if count > 0 {
			return newError(ErrDuplicateUsername, "A user with this username already exists")
		}

		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		return nil
	})
	if err == nil || !isUniqueViolation(err) {
		return err
	}
	// A concurrent registration won the race past the checks above
	return classifyDuplicate(ctx, db, user)
}

// classifyDuplicate reports which unique field of user collides with a
// committed row. It runs outside the failed transaction.
func classifyDuplicate(ctx context.Context, db *gorm.DB, user *models.User) error {
	var count int64
	if cerr := db.WithContext(ctx).Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; cerr == nil && count > 0 {
		return newError(ErrDuplicateEmail, "A user with this email already exists")
	}
	if cerr := db.WithContext(ctx).Model(&models.User{}).Where("username = ?", user.Username).Count(&count).Error; cerr == nil && count > 0 {
		return newError(ErrDuplicateUsername, "A user with this username already exists")
	}
	return newError(ErrDuplicateEmail, "A user with this email already exists")
}

// Authenticate verifies credentials and opens a session.
// Unknown email and wrong password produce the identical error.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*Session, string, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if err != nil && !isRecordNotFound(err) {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}

	if err != nil {
		_ = s.hasher.Compare(s.dummyHash, password)
		loginAttempts.WithLabelValues("failure").Inc()
		return nil, "", newError(ErrInvalidCredentials, InvalidCredentialsMessage)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		loginAttempts.WithLabelValues("failure").Inc()
		return nil, "", newError(ErrInvalidCredentials, InvalidCredentialsMessage)
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, "", fmt.Errorf("failed to save session: %w", err)
	}

	token, err := s.signer.Sign(session)
	if err != nil {
		_ = s.store.Delete(ctx, session.ID)
		return nil, "", err
	}

	loginAttempts.WithLabelValues("success").Inc()
	log.Info().Uint("user_id", user.ID).Str("role", user.Role).Msg("user logged in")
	return session, token, nil
}

// CurrentActor resolves the user behind a session token.
// Any invalid, expired or revoked token yields a nil user and no error.
func (s *IdentityService) CurrentActor(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, nil
	}

	sessionID, userID, err := s.signer.Verify(token)
	if err != nil {
		return nil, nil
	}

	session, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.UserID != userID {
		return nil, nil
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, session.UserID).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// Logout deletes the session behind token. Absent or invalid tokens are a no-op.
func (s *IdentityService) Logout(ctx context.Context, token string) error {
	sessionID, err := s.signer.SessionID(token)
	if err != nil {
		return nil
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// LandingPath is where the client should go after logging in
func LandingPath(user *models.User) string {
	if user.IsAdmin() {
		return "/admin"
	}
	return "/"
}

var identityServiceInstance *IdentityService

// InitIdentityService creates the shared identity service
func InitIdentityService(db *gorm.DB, hasher PasswordHasher, store SessionStore, signer *SessionSigner, ttl time.Duration) *IdentityService {
	identityServiceInstance = NewIdentityService(db, hasher, store, signer, ttl)
	return identityServiceInstance
}

// GetIdentityService returns the shared identity service
func GetIdentityService() *IdentityService {
	return identityServiceInstance
}

// SetIdentityService sets the identity service instance (primarily for testing)
func SetIdentityService(service *IdentityService) {
	identityServiceInstance = service
}
