package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/nurudeen19/rag-fortress/internal/application/auth"
	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

// UserUseCase admin-side user management. Every mutation lands in the audit
// trail through the recorder.
type UserUseCase struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	recorder    *ActivityRecorder
}

// NewUserUseCase builds the use case.
func NewUserUseCase(
	users repository.UserRepository,
	departments repository.DepartmentRepository,
	recorder *ActivityRecorder,
) *UserUseCase {
	return &UserUseCase{users: users, departments: departments, recorder: recorder}
}

// Create provisions an active user with explicit role and clearance. The
// clearance is capped by the department's level.
func (uc *UserUseCase) Create(ctx context.Context, actorID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !entity.ValidRole(in.Role) {
		return nil, fmt.Errorf("role %q: %w", in.Role, domain.ErrInvalidInput)
	}
	if !entity.ValidClearance(in.Clearance) {
		return nil, fmt.Errorf("clearance %d: %w", in.Clearance, domain.ErrInvalidInput)
	}
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
	clearance := in.Clearance
	if clearance > dep.Clearance {
		clearance = dep.Clearance
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
		Role:         in.Role,
		DepartmentID: in.DepartmentID,
		Clearance:    clearance,
		Status:       entity.StatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	uc.recorder.Record(actorID, entity.ActionUserCreated, "user", user.ID, map[string]string{
		"username": user.Username,
		"role":     user.Role,
	})
	return auth.ToUserResponse(user), nil
}

// GetByID returns one user.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return auth.ToUserResponse(user), nil
}

// List returns a page of users plus the total count.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	users, err := uc.users.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *auth.ToUserResponse(u))
	}
	return &dto.UserListResponse{
		Users: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update changes role, department, clearance, status or full name. Empty
// fields are left as they are; the department cap is re-applied.
func (uc *UserUseCase) Update(ctx context.Context, actorID, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	if in.FullName != "" {
		user.FullName = in.FullName
	}
	if in.Role != "" {
		if !entity.ValidRole(in.Role) {
			return nil, fmt.Errorf("role %q: %w", in.Role, domain.ErrInvalidInput)
		}
		user.Role = in.Role
	}
	if in.DepartmentID != "" {
		user.DepartmentID = in.DepartmentID
	}
	if in.Clearance != 0 {
		if !entity.ValidClearance(in.Clearance) {
			return nil, fmt.Errorf("clearance %d: %w", in.Clearance, domain.ErrInvalidInput)
		}
		user.Clearance = in.Clearance
	}
	if in.Status != "" {
		if !entity.ValidStatus(in.Status) {
			return nil, fmt.Errorf("status %q: %w", in.Status, domain.ErrInvalidInput)
		}
		user.Status = in.Status
	}

	dep, err := uc.departments.GetByID(ctx, user.DepartmentID)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, fmt.Errorf("department %s: %w", user.DepartmentID, domain.ErrNotFound)
	}
	if user.Clearance > dep.Clearance {
		user.Clearance = dep.Clearance
	}

	user.UpdatedAt = time.Now()
	if err := uc.users.Update(ctx, user); err != nil {
		return nil, err
	}

	uc.recorder.Record(actorID, entity.ActionUserUpdated, "user", user.ID, nil)
	return auth.ToUserResponse(user), nil
}

// Delete removes a user. Admins cannot delete themselves.
func (uc *UserUseCase) Delete(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return fmt.Errorf("cannot delete own account: %w", domain.ErrConflict)
	}
	user, err := uc.users.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	if err := uc.users.Delete(ctx, id); err != nil {
		return err
	}
	uc.recorder.Record(actorID, entity.ActionUserDeleted, "user", id, map[string]string{
		"username": user.Username,
	})
	return nil
}
