package dto

// RegisterRequest input for /v1/auth/register.
type RegisterRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=64"`
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required,min=8"`
	FullName     string `json:"full_name" validate:"omitempty,max=200"`
	DepartmentID string `json:"department_id" validate:"required,uuid"`
}

// LoginRequest input for /v1/auth/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenPair a freshly issued access/refresh pair. Handlers place these in
// httpOnly cookies; the pair never appears in response bodies.
type TokenPair struct {
	AccessToken  string `json:"-"`
	RefreshToken string `json:"-"`
}

// LoginResponse body for login and refresh: the user profile. Tokens travel
// in cookies only.
type LoginResponse struct {
	User UserResponse `json:"user"`
}
