package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nurudeen19/rag-fortress/internal/application/dto"
	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

// DirectoryUseCase read access to departments and roles. The department
// list backs the registration form; roles back the admin user form.
type DirectoryUseCase struct {
	departments repository.DepartmentRepository
	roles       repository.RoleRepository
}

// NewDirectoryUseCase builds the use case.
func NewDirectoryUseCase(departments repository.DepartmentRepository, roles repository.RoleRepository) *DirectoryUseCase {
	return &DirectoryUseCase{departments: departments, roles: roles}
}

// ListDepartments returns every department.
func (uc *DirectoryUseCase) ListDepartments(ctx context.Context) ([]dto.DepartmentResponse, error) {
	deps, err := uc.departments.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepartmentResponse, 0, len(deps))
	for _, d := range deps {
		out = append(out, dto.DepartmentResponse{ID: d.ID, Name: d.Name, Clearance: d.Clearance})
	}
	return out, nil
}

// CreateDepartment adds a department (admin only at the route level).
func (uc *DirectoryUseCase) CreateDepartment(ctx context.Context, in dto.CreateDepartmentRequest) (*dto.DepartmentResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("name required: %w", domain.ErrInvalidInput)
	}
	if !entity.ValidClearance(in.Clearance) {
		return nil, fmt.Errorf("clearance %d: %w", in.Clearance, domain.ErrInvalidInput)
	}
	now := time.Now()
	dep := &entity.Department{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Clearance: in.Clearance,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.departments.Create(ctx, dep); err != nil {
		return nil, err
	}
	return &dto.DepartmentResponse{ID: dep.ID, Name: dep.Name, Clearance: dep.Clearance}, nil
}

// ListRoles returns the assignable roles.
func (uc *DirectoryUseCase) ListRoles(ctx context.Context) ([]dto.RoleResponse, error) {
	roles, err := uc.roles.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RoleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, dto.RoleResponse{Name: r.Name, Description: r.Description})
	}
	return out, nil
}
