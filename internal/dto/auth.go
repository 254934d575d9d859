package dto

import "github.com/noah-isme/classroom-core/internal/models"

// LoginRequest holds credentials for one of the three login panels.
type LoginRequest struct {
	Email    string          `json:"email" validate:"required"`
	Password string          `json:"password" validate:"required"`
	Role     models.UserRole `json:"role" validate:"required,oneof=student teacher admin"`
}

// SignupRequest registers a student account.
type SignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// TeacherSignupRequest registers a teacher account pending admin approval.
// The payment screenshot and profile photo travel alongside as uploads.
type TeacherSignupRequest struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
	Designation     string `json:"designation" validate:"required"`
	Qualifications  string `json:"qualifications" validate:"required"`
	Experience      string `json:"experience" validate:"required"`
	TransactionID   string `json:"transactionId" validate:"required"`
}
