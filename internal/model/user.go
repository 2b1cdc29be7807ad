package model

// User represents a row in the users table.
type User struct {
	ID           int64  `db:"id"`
	FirstName    string `db:"first_name"`
	LastName     string `db:"last_name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password"`
}

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	FirstName string `json:"f_name" validate:"required"`
	LastName  string `json:"l_name" validate:"required"`
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued token and the user's email for client convenience.
type LoginResponse struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// UserResponse represents user data safe for API responses (no credential material).
type UserResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}
