package dto

// DepartmentResponse one department in the public directory.
type DepartmentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Clearance int    `json:"clearance"`
}

// CreateDepartmentRequest admin input for adding a department.
type CreateDepartmentRequest struct {
	Name      string `json:"name" validate:"required,max=200"`
	Clearance int    `json:"clearance" validate:"required,min=1,max=5"`
}

// RoleResponse one assignable role.
type RoleResponse struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
