package auth

import (
	"net/mail"
	"strings"

	"github.com/vozlab/asistente-backend/internal/domain"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 72 // bcrypt input limit
)

// RegisterInput holds parameters for the register operation.
type RegisterInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// Validate validates the register input.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.FullName) == "" {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "required"})
	}

	if i.Username == "" {
		errs = append(errs, domain.FieldError{Field: "username", Message: "required"})
	} else if len(i.Username) < 3 || len(i.Username) > 64 {
		errs = append(errs, domain.FieldError{Field: "username", Message: "must be 3-64 characters"})
	}

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	} else if _, err := mail.ParseAddress(i.Email); err != nil {
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid address"})
	}

	errs = append(errs, validatePassword(i.Password)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LoginInput holds parameters for the password login operation.
type LoginInput struct {
	Username string
	Password string
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if i.Username == "" {
		errs = append(errs, domain.FieldError{Field: "username", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RefreshInput holds parameters for the token refresh operation.
type RefreshInput struct {
	RefreshToken string
}

// Validate validates the refresh input.
func (i RefreshInput) Validate() error {
	var errs []domain.FieldError

	if i.RefreshToken == "" {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "required"})
	} else if len(i.RefreshToken) > 512 {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RecoveryRequestInput holds parameters for requesting a recovery code.
type RecoveryRequestInput struct {
	Email string
}

// Validate validates the recovery request input.
func (i RecoveryRequestInput) Validate() error {
	if i.Email == "" {
		return domain.NewValidationError("email", "required")
	}
	if _, err := mail.ParseAddress(i.Email); err != nil {
		return domain.NewValidationError("email", "invalid address")
	}
	return nil
}

// RecoveryVerifyInput holds parameters for checking a recovery code.
type RecoveryVerifyInput struct {
	Email string
	Code  string
}

// Validate validates the recovery verify input.
func (i RecoveryVerifyInput) Validate() error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	}
	if len(i.Code) != 5 {
		errs = append(errs, domain.FieldError{Field: "code", Message: "must be 5 digits"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RecoveryResetInput holds parameters for resetting the password with a code.
type RecoveryResetInput struct {
	Email       string
	Code        string
	NewPassword string
}

// Validate validates the recovery reset input.
func (i RecoveryResetInput) Validate() error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	}
	if len(i.Code) != 5 {
		errs = append(errs, domain.FieldError{Field: "code", Message: "must be 5 digits"})
	}
	errs = append(errs, validatePassword(i.NewPassword)...)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

func validatePassword(password string) []domain.FieldError {
	switch {
	case password == "":
		return []domain.FieldError{{Field: "password", Message: "required"}}
	case len(password) < minPasswordLen:
		return []domain.FieldError{{Field: "password", Message: "too short"}}
	case len(password) > maxPasswordLen:
		return []domain.FieldError{{Field: "password", Message: "too long"}}
	}
	return nil
}
