package models

import "time"

// Role is the authorization role carried in JWT claims.
type Role string

const (
	RoleUser  Role = "USER"
	RoleOwner Role = "OWNER"
	RoleAdmin Role = "ADMIN"
)

// IsValidRole checks if the provided string is a known Role.
func IsValidRole(role string) bool {
	switch Role(role) {
	case RoleUser, RoleOwner, RoleAdmin:
		return true
	default:
		return false
	}
}

// UserStatus soft-disables accounts without deleting them.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

func IsValidUserStatus(status string) bool {
	switch UserStatus(status) {
	case UserStatusActive, UserStatusInactive:
		return true
	default:
		return false
	}
}

// MembershipTier is a loyalty classification. It is informational only and
// never changes a computed price.
type MembershipTier string

const (
	TierGold     MembershipTier = "GOLD"
	TierPlatinum MembershipTier = "PLATINUM"
	TierDiamond  MembershipTier = "DIAMOND"
	TierVIP      MembershipTier = "VIP"
)

func IsValidMembershipTier(tier string) bool {
	switch MembershipTier(tier) {
	case TierGold, TierPlatinum, TierDiamond, TierVIP:
		return true
	default:
		return false
	}
}

// User represents a renter, boat owner or administrator.
type User struct {
	ID             int64           `json:"id" db:"id"`
	Email          string          `json:"email" db:"email"`
	PasswordHash   string          `json:"-" db:"password_hash"`
	FullName       string          `json:"full_name" db:"full_name"`
	Phone          *string         `json:"phone,omitempty" db:"phone"`
	Role           Role            `json:"role" db:"role"`
	Status         UserStatus      `json:"status" db:"status"`
	MembershipTier *MembershipTier `json:"membership_tier,omitempty" db:"membership_tier"`
	LoyaltyPoints  int             `json:"loyalty_points" db:"loyalty_points"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// UserFilters defines the available filters for the admin user list.
type UserFilters struct {
	Role     *string `form:"role"`
	Status   *string `form:"status"`
	Search   *string `form:"search"` // matches email or full name
	Page     int     `form:"page"`
	PageSize int     `form:"page_size"`
}
