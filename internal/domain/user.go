package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type UserRole string

const (
	RoleHomeowner    UserRole = "homeowner"
	RoleTradesperson UserRole = "tradesperson"
	RoleAdmin        UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case RoleHomeowner, RoleTradesperson, RoleAdmin:
		return true
	default:
		return false
	}
}

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusPending   UserStatus = "pending"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusActive, UserStatusPending, UserStatusSuspended, UserStatusBanned:
		return true
	default:
		return false
	}
}

type User struct {
	ID                     uuid.UUID      `json:"id" db:"user_id"`
	Name                   string         `json:"name" db:"name"`
	Email                  string         `json:"email" db:"email"`
	Phone                  string         `json:"phone" db:"phone"`
	PasswordHash           string         `json:"-" db:"password_hash"`
	Role                   UserRole       `json:"role" db:"role"`
	AdminRole              *AdminRole     `json:"admin_role,omitempty" db:"admin_role"`
	Status                 UserStatus     `json:"status" db:"status"`
	Location               string         `json:"location" db:"location"`
	Postcode               string         `json:"postcode" db:"postcode"`
	State                  string         `json:"state" db:"state"`
	LGA                    string         `json:"lga" db:"lga"`
	Town                   string         `json:"town" db:"town"`
	TradeCategories        pq.StringArray `json:"trade_categories" db:"trade_categories"`
	ExperienceYears        int            `json:"experience_years" db:"experience_years"`
	CompanyName            string         `json:"company_name" db:"company_name"`
	Description            string         `json:"description" db:"description"`
	Certifications         pq.StringArray `json:"certifications" db:"certifications"`
	AvatarURL              *string        `json:"avatar_url,omitempty" db:"avatar_url"`
	IsVerified             bool           `json:"is_verified" db:"is_verified"`
	LastLoginAt            *time.Time     `json:"last_login_at,omitempty" db:"last_login_at"`
	PasswordResetToken     *string        `json:"-" db:"password_reset_token"`
	PasswordResetExpiresAt *time.Time     `json:"-" db:"password_reset_expires_at"`
	CreatedAt              time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt              time.Time      `json:"updated_at" db:"updated_at"`
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

func (u *User) IsHomeowner() bool {
	return u.Role == RoleHomeowner
}

func (u *User) IsTradesperson() bool {
	return u.Role == RoleTradesperson
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPermission reports whether an admin's role grants perm. Non-admins hold no admin permissions.
func (u *User) HasPermission(perm AdminPermission) bool {
	if !u.IsAdmin() || u.AdminRole == nil {
		return false
	}
	return u.AdminRole.Grants(perm)
}

// PublicProfile is the subset of a user shown to the other side of a job.
type PublicProfile struct {
	ID              uuid.UUID      `json:"id" db:"user_id"`
	Name            string         `json:"name" db:"name"`
	Role            UserRole       `json:"role" db:"role"`
	Location        string         `json:"location" db:"location"`
	TradeCategories pq.StringArray `json:"trade_categories,omitempty" db:"trade_categories"`
	ExperienceYears int            `json:"experience_years,omitempty" db:"experience_years"`
	CompanyName     string         `json:"company_name,omitempty" db:"company_name"`
	AvatarURL       *string        `json:"avatar_url,omitempty" db:"avatar_url"`
	IsVerified      bool           `json:"is_verified" db:"is_verified"`
}

type RegisterHomeownerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Location string `json:"location"`
	Postcode string `json:"postcode"`
	State    string `json:"state"`
	LGA      string `json:"lga"`
	Town     string `json:"town"`
}

type RegisterTradespersonInput struct {
	RegisterHomeownerInput
	TradeCategories []string `json:"trade_categories"`
	ExperienceYears int      `json:"experience_years"`
	CompanyName     string   `json:"company_name"`
	Description     string   `json:"description"`
	Certifications  []string `json:"certifications"`
}

func (in *RegisterHomeownerInput) Normalize() {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
}

func (in RegisterHomeownerInput) Validate() error {
	if len(in.Name) < 2 {
		return NewValidationError("name must be at least 2 characters")
	}
	if !strings.Contains(in.Email, "@") || strings.HasPrefix(in.Email, "@") || strings.HasSuffix(in.Email, "@") {
		return NewValidationError("a valid email is required")
	}
	if in.Phone == "" {
		return NewValidationError("phone is required")
	}
	if len(in.Password) < 8 {
		return NewValidationError("password must be at least 8 characters")
	}
	return nil
}

func (in RegisterTradespersonInput) Validate() error {
	if err := in.RegisterHomeownerInput.Validate(); err != nil {
		return err
	}
	if len(in.TradeCategories) == 0 {
		return NewValidationError("at least one trade category is required")
	}
	if in.ExperienceYears < 0 {
		return NewValidationError("experience_years cannot be negative")
	}
	return nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileInput struct {
	Name            *string   `json:"name,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	Location        *string   `json:"location,omitempty"`
	Postcode        *string   `json:"postcode,omitempty"`
	State           *string   `json:"state,omitempty"`
	LGA             *string   `json:"lga,omitempty"`
	Town            *string   `json:"town,omitempty"`
	TradeCategories *[]string `json:"trade_categories,omitempty"`
	ExperienceYears *int      `json:"experience_years,omitempty"`
	CompanyName     *string   `json:"company_name,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Certifications  *[]string `json:"certifications,omitempty"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type UserFilter struct {
	Role   string
	Status string
	Query  string
}
