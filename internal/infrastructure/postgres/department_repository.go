package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nurudeen19/rag-fortress/internal/domain"
	"github.com/nurudeen19/rag-fortress/internal/domain/entity"
	"github.com/nurudeen19/rag-fortress/internal/domain/repository"
)

var _ repository.DepartmentRepository = (*DepartmentRepo)(nil)

// DepartmentRepo implements the DepartmentRepository port over PostgreSQL.
type DepartmentRepo struct {
	pool *pgxpool.Pool
}

// NewDepartmentRepository builds the department persistence adapter.
func NewDepartmentRepository(pool *pgxpool.Pool) *DepartmentRepo {
	return &DepartmentRepo{pool: pool}
}

// Create persists a new department.
func (r *DepartmentRepo) Create(ctx context.Context, dep *entity.Department) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO departments (id, name, clearance, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		dep.ID, dep.Name, dep.Clearance, dep.CreatedAt, dep.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert department: %w", err)
	}
	return nil
}

// GetByID fetches a department by ID. Returns (nil, nil) when absent.
func (r *DepartmentRepo) GetByID(ctx context.Context, id string) (*entity.Department, error) {
	var d entity.Department
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, clearance, created_at, updated_at FROM departments WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Clearance, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get department: %w", err)
	}
	return &d, nil
}

// List returns all departments ordered by name.
func (r *DepartmentRepo) List(ctx context.Context) ([]*entity.Department, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, clearance, created_at, updated_at FROM departments ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Department
	for rows.Next() {
		var d entity.Department
		if err := rows.Scan(&d.ID, &d.Name, &d.Clearance, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}

// Update persists department changes.
func (r *DepartmentRepo) Update(ctx context.Context, dep *entity.Department) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE departments SET name = $2, clearance = $3, updated_at = $4 WHERE id = $1`,
		dep.ID, dep.Name, dep.Clearance, dep.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update department: %w", err)
	}
	return nil
}
