package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/riadice/riadice-backend/internal/access"
	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/riadice/riadice-backend/internal/app/repository"
	"github.com/riadice/riadice-backend/pkg/logger"
	"github.com/riadice/riadice-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrSignupDisabled     = errors.New("public sign-up is disabled")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrWrongTokenType     = errors.New("wrong token type")
)

// TokenRevoker remembers signed-out token ids (Redis in production).
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type AuthConfig struct {
	JWTSecret     string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	AllowSignup   bool
}

// CurrentUser is the signed-in identity joined with its profile and resolved role.
type CurrentUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      model.Role `json:"role"`
}

// AuthService is the identity provider: sessions for everybody, account provisioning for admins.
type AuthService interface {
	SignUp(email, password string, meta model.IdentityMetadata) (*model.Identity, *util.TokenPair, error)
	SignIn(email, password string) (*model.Identity, *util.TokenPair, error)
	SignOut(ctx context.Context, claims *util.Claims) error
	Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error)
	// VerifyAccessToken checks signature, type, revocation and that the identity still exists.
	VerifyAccessToken(ctx context.Context, token string) (*access.Session, *util.Claims, error)
	GetCurrentUser(userID string) (*CurrentUser, error)
	CreateUser(email, password string, meta model.IdentityMetadata) (*model.Identity, error)
	DeleteUser(tx *gorm.DB, userID string) error
}

type authService struct {
	identityRepo repository.IdentityRepository
	roleRepo     repository.RoleRepository
	profileRepo  repository.ProfileRepository
	roleService  RoleService
	revoker      TokenRevoker
	cfg          AuthConfig

	// bootstrapMu serializes admin-requesting sign-ups so only one can see an empty admin set.
	bootstrapMu sync.Mutex
}

func NewAuthService(
	identityRepo repository.IdentityRepository,
	roleRepo repository.RoleRepository,
	profileRepo repository.ProfileRepository,
	roleService RoleService,
	revoker TokenRevoker,
	cfg AuthConfig,
) AuthService {
	return &authService{
		identityRepo: identityRepo,
		roleRepo:     roleRepo,
		profileRepo:  profileRepo,
		roleService:  roleService,
		revoker:      revoker,
		cfg:          cfg,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateCredentials(email, password string) error {
	fields := fieldErrors{}
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		fields.add("email", "must be a valid email address")
	}
	if err := util.ValidatePassword(password); err != nil {
		fields.add("password", err.Error())
	}
	return fields.err()
}

// SignUp is the public self-service path. The requested role is honoured only while no admin exists.
func (s *authService) SignUp(email, password string, meta model.IdentityMetadata) (*model.Identity, *util.TokenPair, error) {
	if !s.cfg.AllowSignup {
		logger.Warn("Sign-up attempted while disabled", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrSignupDisabled
	}

	if meta.Role == model.RoleAdmin {
		// count and insert must not interleave with another bootstrap attempt
		s.bootstrapMu.Lock()
		defer s.bootstrapMu.Unlock()
	}

	admins, err := s.roleRepo.CountAdmins()
	if err != nil {
		return nil, nil, err
	}
	if admins > 0 || !meta.Role.Valid() {
		meta.Role = model.RoleStaff
	}

	identity, err := s.provision(email, password, meta, false)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.issueTokens(identity)
	if err != nil {
		return nil, nil, err
	}
	return identity, tokens, nil
}

// CreateUser provisions a pre-confirmed account for an admin.
func (s *authService) CreateUser(email, password string, meta model.IdentityMetadata) (*model.Identity, error) {
	return s.provision(email, password, meta, true)
}

func (s *authService) provision(email, password string, meta model.IdentityMetadata, confirmed bool) (*model.Identity, error) {
	email = normalizeEmail(email)
	logger.Info("Provisioning identity", map[string]interface{}{
		"email":     email,
		"role":      meta.Role,
		"confirmed": confirmed,
	})

	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	existing, err := s.identityRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if existing != nil {
		logger.Warn("Provisioning failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, ErrEmailAlreadyExists
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, err
	}

	identity := &model.Identity{
		Email:        email,
		PasswordHash: hash,
		Metadata:     meta,
	}
	if confirmed {
		now := time.Now()
		identity.EmailConfirmedAt = &now
	}

	// role_assignments and profiles rows come from the AfterCreate hook
	if err := s.identityRepo.Create(identity); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	logger.Info("Identity provisioned", map[string]interface{}{
		"user_id": identity.ID,
		"email":   email,
	})
	return identity, nil
}

func (s *authService) SignIn(email, password string) (*model.Identity, *util.TokenPair, error) {
	email = normalizeEmail(email)
	logger.Info("Sign-in attempt", map[string]interface{}{
		"email": email,
	})

	identity, err := s.identityRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Sign-in failed: unknown email", map[string]interface{}{
				"email": email,
			})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !util.VerifyPassword(identity.PasswordHash, password) {
		logger.Warn("Sign-in failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": identity.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := s.issueTokens(identity)
	if err != nil {
		return nil, nil, err
	}

	if err := s.identityRepo.TouchLastSignIn(identity.ID, time.Now()); err != nil {
		logger.Warn("Failed to record sign-in time", map[string]interface{}{
			"user_id": identity.ID,
			"error":   err.Error(),
		})
	}

	logger.Info("Signed in successfully", map[string]interface{}{
		"user_id": identity.ID,
		"email":   email,
	})
	return identity, tokens, nil
}

func (s *authService) issueTokens(identity *model.Identity) (*util.TokenPair, error) {
	tokens, err := util.GenerateTokenPair(
		identity.ID,
		identity.Email,
		s.cfg.JWTSecret,
		s.cfg.AccessExpiry,
		s.cfg.RefreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": identity.ID,
		})
		return nil, err
	}
	return tokens, nil
}

// SignOut revokes the presented token for the rest of its lifetime.
func (s *authService) SignOut(ctx context.Context, claims *util.Claims) error {
	if claims == nil || claims.ID == "" {
		return util.ErrInvalidToken
	}
	if s.revoker == nil {
		return nil
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if err := s.revoker.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	logger.Info("Signed out", map[string]interface{}{
		"user_id": claims.UserID,
	})
	return nil
}

func (s *authService) checkToken(ctx context.Context, token, tokenType string) (*util.Claims, error) {
	claims, err := util.ValidateToken(token, s.cfg.JWTSecret)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenType {
		return nil, ErrWrongTokenType
	}
	if s.revoker != nil {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Refresh exchanges a refresh token for a new pair and revokes the old refresh token.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*util.TokenPair, error) {
	claims, err := s.checkToken(ctx, refreshToken, util.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	identity, err := s.identityRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tokens, err := s.issueTokens(identity)
	if err != nil {
		return nil, err
	}
	if err := s.SignOut(ctx, claims); err != nil {
		logger.Warn("Failed to revoke used refresh token", map[string]interface{}{
			"user_id": identity.ID,
			"error":   err.Error(),
		})
	}
	return tokens, nil
}

func (s *authService) VerifyAccessToken(ctx context.Context, token string) (*access.Session, *util.Claims, error) {
	claims, err := s.checkToken(ctx, token, util.TokenTypeAccess)
	if err != nil {
		return nil, nil, err
	}

	identity, err := s.identityRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	return &access.Session{UserID: identity.ID, Email: identity.Email, Role: model.RoleNone}, claims, nil
}

func (s *authService) GetCurrentUser(userID string) (*CurrentUser, error) {
	identity, err := s.identityRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	role, err := s.roleService.Resolve(userID)
	if err != nil {
		return nil, err
	}

	user := &CurrentUser{ID: identity.ID, Email: identity.Email, Role: role}
	profile, err := s.profileRepo.FindByUserID(userID)
	switch {
	case err == nil:
		user.FirstName = profile.FirstName
		user.LastName = profile.LastName
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the identity inside tx; role and profile go with it.
func (s *authService) DeleteUser(tx *gorm.DB, userID string) error {
	repo := s.identityRepo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	if err := repo.Delete(userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	logger.Info("Identity deleted", map[string]interface{}{
		"user_id": userID,
	})
	return nil
}
