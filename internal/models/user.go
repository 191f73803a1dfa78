package models

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func ParseRole(s string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	return role, role.Valid()
}

type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Role         Role      `gorm:"type:varchar(20);not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// PasswordHasher turns a raw password into a storable digest.
type PasswordHasher interface {
	Hash(raw string) (string, error)
}

type NewUserParams struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email,max=255"`
	// bcrypt ignores everything past 72 bytes
	Password string `json:"password" validate:"required,min=8,max=72,maxbytes=72"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= limit
	})
	return v
}

// Keyed by "<field>.<tag>". A %s verb receives the tag parameter.
var userFieldMessages = map[string]string{
	"username.required": "Username cannot be null or empty",
	"username.min":      "Username must be at least %s characters long",
	"username.max":      "Username must be at most %s characters long",
	"email.required":    "Email cannot be null or empty",
	"email.email":       "Invalid email format",
	"email.max":         "Email must be at most %s characters long",
	"password.required": "Password cannot be null or empty",
	"password.min":      "Password must be at least %s characters long",
	"password.max":      "Password must be at most %s characters long",
	"password.maxbytes": "Password must be at most %s bytes long",
}

func fieldMessage(fe validator.FieldError) string {
	format, ok := userFieldMessages[fe.Field()+"."+fe.Tag()]
	if !ok {
		return fmt.Sprintf("Invalid %s", fe.Field())
	}
	if strings.Contains(format, "%s") {
		return fmt.Sprintf(format, fe.Param())
	}
	return format
}

// NewUser builds a regular account. Every invalid field is reported at once
// through a *ValidationError.
func NewUser(p NewUserParams, hasher PasswordHasher) (*User, error) {
	return newUser(p, RoleUser, hasher)
}

// NewAdmin builds an account with the ADMIN role.
func NewAdmin(p NewUserParams, hasher PasswordHasher) (*User, error) {
	return newUser(p, RoleAdmin, hasher)
}

func newUser(p NewUserParams, role Role, hasher PasswordHasher) (*User, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.Email = strings.TrimSpace(p.Email)

	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return nil, fmt.Errorf("failed to validate user: %w", err)
		}
		fields := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return nil, &ValidationError{Message: "Invalid user data", Fields: fields}
	}

	hash, err := hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	return &User{
		ID:           id,
		Username:     p.Username,
		Email:        p.Email,
		PasswordHash: hash,
		Role:         role,
	}, nil
}

// ChangeRole is the only way a role changes after creation.
func (u *User) ChangeRole(role Role) error {
	if !role.Valid() {
		return violation("role", "Invalid role")
	}
	u.Role = role
	return nil
}
