package dto

import "time"

// CreateUserRequest admin input for creating a user directly.
type CreateUserRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=64"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"omitempty,max=200"`
	Role         string `json:"role" validate:"required,oneof=admin analyst viewer"`
	DepartmentID string `json:"department_id" validate:"required,uuid"`
	Clearance    int    `json:"clearance" validate:"required,min=1,max=5"`
}

// UpdateUserRequest admin input for changing role, department, clearance or
// status. Empty fields are left untouched.
type UpdateUserRequest struct {
	FullName     string `json:"full_name" validate:"omitempty,max=200"`
	Role         string `json:"role" validate:"omitempty,oneof=admin analyst viewer"`
	DepartmentID string `json:"department_id" validate:"omitempty,uuid"`
	Clearance    int    `json:"clearance" validate:"omitempty,min=1,max=5"`
	Status       string `json:"status" validate:"omitempty,oneof=active inactive suspended unverified"`
}

// UserResponse a user without credentials.
type UserResponse struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	DepartmentID string    `json:"department_id"`
	Clearance    int       `json:"clearance"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserListResponse paginated user listing.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Page  PageResponse   `json:"page"`
}
