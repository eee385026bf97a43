package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/application/ports"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
	"github.com/nurudeen19/rag-fortress/pkg/token"
)

// AuthUseCase authentication operations: register, login, refresh, logout.
// Refresh tokens rotate on every use; presenting an already-revoked token is
// treated as replay and revokes every session of that user.
type AuthUseCase struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	sessions    repository.SessionRepository
	issuer      *token.Issuer
	refreshTTL  time.Duration
	recorder    ports.AuditRecorder
}

// NewAuthUseCase builds the auth use case.
func NewAuthUseCase(
	users repository.UserRepository,
	departments repository.DepartmentRepository,
	sessions repository.SessionRepository,
	issuer *token.Issuer,
	refreshTTL time.Duration,
	recorder ports.AuditRecorder,
) *AuthUseCase {
	return &AuthUseCase{
		users:       users,
		departments: departments,
		sessions:    sessions,
		issuer:      issuer,
		refreshTTL:  refreshTTL,
		recorder:    recorder,
	}
}

// Register creates an account: bcrypt-hashes the password and persists the
// user as an unverified viewer at the minimum clearance. An admin activates
// the account and assigns role/clearance afterwards.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	if existing, err := uc.users.GetByUsername(ctx, in.Username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	if existing, err := uc.users.GetByEmail(ctx, in.Email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrEmailTaken
	}

	dep, err := uc.departments.GetByID(ctx, in.DepartmentID)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, fmt.Errorf("department %s: %w", in.DepartmentID, domain.ErrNotFound)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	fullName := in.FullName
	if fullName == "" {
		fullName = in.Username
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     fullName,
		Role:         entity.RoleViewer,
		DepartmentID: in.DepartmentID,
		Clearance:    entity.ClearanceMin,
		Status:       entity.StatusUnverified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifies credentials, gates on account status, and issues a fresh
// access/refresh pair backed by a new session row.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, *dto.TokenPair, error) {
	user, err := uc.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, nil, domain.ErrUnauthorized
	}
	if err := statusError(user.Status); err != nil {
		return nil, nil, err
	}

	pair, err := uc.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	uc.recorder.Record(user.ID, entity.ActionLogin, "user", user.ID, nil)
	return &dto.LoginResponse{User: *ToUserResponse(user)}, pair, nil
}

// Refresh validates and rotates a refresh token. A token whose session is
// already revoked is replay: every session of the user is revoked and the
// caller gets domain.ErrTokenRevoked.
func (uc *AuthUseCase) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, *dto.TokenPair, error) {
	claims, err := uc.issuer.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, nil, domain.ErrUnauthorized
	}

	session, err := uc.sessions.GetByID(ctx, claims.ID)
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, domain.ErrUnauthorized
	}
	if session.Revoked {
		// Someone replayed a rotated-out token: kill the whole family.
		if err := uc.sessions.RevokeAllForUser(ctx, session.UserID); err != nil {
			return nil, nil, err
		}
		return nil, nil, domain.ErrTokenRevoked
	}
	if time.Now().After(session.ExpiresAt) {
		return nil, nil, domain.ErrUnauthorized
	}

	user, err := uc.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, domain.ErrUserNotFound
	}
	// Status may have changed since login; a suspended user cannot refresh.
	if err := statusError(user.Status); err != nil {
		return nil, nil, err
	}

	if err := uc.sessions.Revoke(ctx, session.ID); err != nil {
		return nil, nil, err
	}
	pair, err := uc.issuePair(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	uc.recorder.Record(user.ID, entity.ActionTokenRefreshed, "user", user.ID, nil)
	return &dto.LoginResponse{User: *ToUserResponse(user)}, pair, nil
}

// Logout revokes the session behind the refresh token. An invalid or
// already-revoked token logs out successfully anyway.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	claims, err := uc.issuer.Parse(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil
	}
	if err := uc.sessions.Revoke(ctx, claims.ID); err != nil {
		return err
	}
	uc.recorder.Record(claims.UserID, entity.ActionLogout, "user", claims.UserID, nil)
	return nil
}

// PruneSessions deletes refresh sessions past their expiry. Meant to run
// periodically; returns the number of rows removed.
func (uc *AuthUseCase) PruneSessions(ctx context.Context) (int64, error) {
	return uc.sessions.DeleteExpired(ctx)
}

func (uc *AuthUseCase) issuePair(ctx context.Context, user *entity.User) (*dto.TokenPair, error) {
	access, err := uc.issuer.Access(user.ID, user.Role, user.Clearance)
	if err != nil {
		return nil, err
	}
	refresh, jti, err := uc.issuer.Refresh(user.ID, user.Role, user.Clearance)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	session := &entity.RefreshSession{
		ID:        jti,
		UserID:    user.ID,
		Revoked:   false,
		ExpiresAt: now.Add(uc.refreshTTL),
		CreatedAt: now,
	}
	if err := uc.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return &dto.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func statusError(status string) error {
	switch status {
	case entity.StatusActive:
		return nil
	case entity.StatusSuspended:
		return domain.ErrAccountSuspended
	case entity.StatusInactive:
		return domain.ErrAccountInactive
	case entity.StatusUnverified:
		return domain.ErrAccountUnverified
	}
	return domain.ErrForbidden
}

// ToUserResponse maps a user entity to its response DTO.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		FullName:     u.FullName,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		Clearance:    u.Clearance,
		Status:       u.Status,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
