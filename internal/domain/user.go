package domain

import (
	"context"
	"time"
)

const (
	DefaultBusinessType = "ИП"
	DefaultLanguage     = "ru"
)

// User is a Telegram user of the assistant, keyed by the Telegram user id
type User struct {
	ID                   int64     `json:"id"`
	Username             string    `json:"username"`
	FirstName            string    `json:"first_name"`
	LastName             string    `json:"last_name"`
	BusinessType         string    `json:"business_type"`
	Industry             string    `json:"industry"`
	BusinessSize         string    `json:"business_size"`
	MonthlyRevenue       *int      `json:"monthly_revenue,omitempty"`
	Language             string    `json:"language"`
	NotificationsEnabled bool      `json:"notifications_enabled"`
	CreatedAt            time.Time `json:"created_at"`
	LastActive           time.Time `json:"last_active"`
}

// DisplayName returns the best human-readable name for the user
func (u *User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return "@" + u.Username
	default:
		return "пользователь"
	}
}

// UserIdentity carries the identity fields known at first contact
type UserIdentity struct {
	ID        int64  `json:"id" validate:"required,gt=0"`
	Username  string `json:"username" validate:"max=100"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// ProfilePatch enumerates the mutable profile fields. Nil fields are left untouched.
type ProfilePatch struct {
	Username             *string `json:"username,omitempty" validate:"omitempty,max=100"`
	FirstName            *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName             *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	BusinessType         *string `json:"business_type,omitempty" validate:"omitempty,max=50"`
	Industry             *string `json:"industry,omitempty" validate:"omitempty,max=100"`
	BusinessSize         *string `json:"business_size,omitempty" validate:"omitempty,max=50"`
	MonthlyRevenue       *int    `json:"monthly_revenue,omitempty" validate:"omitempty,gte=0"`
	Language             *string `json:"language,omitempty" validate:"omitempty,oneof=ru en kk uz"`
	NotificationsEnabled *bool   `json:"notifications_enabled,omitempty"`
}

// IsEmpty reports whether the patch changes nothing
func (p ProfilePatch) IsEmpty() bool {
	return p.Username == nil && p.FirstName == nil && p.LastName == nil &&
		p.BusinessType == nil && p.Industry == nil && p.BusinessSize == nil &&
		p.MonthlyRevenue == nil && p.Language == nil && p.NotificationsEnabled == nil
}

// Apply copies the set fields of the patch onto the user
func (p ProfilePatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.BusinessType != nil {
		u.BusinessType = *p.BusinessType
	}
	if p.Industry != nil {
		u.Industry = *p.Industry
	}
	if p.BusinessSize != nil {
		u.BusinessSize = *p.BusinessSize
	}
	if p.MonthlyRevenue != nil {
		v := *p.MonthlyRevenue
		u.MonthlyRevenue = &v
	}
	if p.Language != nil {
		u.Language = *p.Language
	}
	if p.NotificationsEnabled != nil {
		u.NotificationsEnabled = *p.NotificationsEnabled
	}
}

// UserStats summarizes a user's consultation history
type UserStats struct {
	TotalConsultations  int             `json:"total_consultations"`
	RecentConsultations int             `json:"recent_consultations"`
	TopCategories       []CategoryCount `json:"top_categories"`
	FirstConsultation   *time.Time      `json:"first_consultation,omitempty"`
	LastConsultation    *time.Time      `json:"last_consultation,omitempty"`
	MemberSince         time.Time       `json:"member_since"`
}

// CategoryCount pairs a conversation category with its number of conversations
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	Touch(ctx context.Context, id int64, at time.Time) error
	UpdateProfile(ctx context.Context, id int64, patch ProfilePatch) (*User, error)
}
