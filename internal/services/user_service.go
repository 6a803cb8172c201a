package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"yacht_charter_backend/internal/models"
	"yacht_charter_backend/internal/repositories"
	"yacht_charter_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrCurrentPasswordRequired = errors.New("current password is required to set a new password")
	ErrCannotModifySelf        = errors.New("administrators cannot change their own role or status")
)

// --- User DTOs ---
type UpdateProfileRequest struct {
	FullName        *string `json:"full_name"`
	Phone           *string `json:"phone"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password" binding:"omitempty,min=8"`
}

// AdminUpdateUserRequest carries admin-only account fields.
// clear_membership_tier removes the tier and takes precedence over membership_tier.
type AdminUpdateUserRequest struct {
	Role           *string `json:"role" binding:"omitempty,role"`
	Status         *string `json:"status" binding:"omitempty,user_status"`
	MembershipTier *string `json:"membership_tier" binding:"omitempty,membership_tier"`
	ClearTier      bool    `json:"clear_membership_tier"`
	LoyaltyPoints  *int    `json:"loyalty_points" binding:"omitempty,min=0"`
}

// --- UserService Interface ---
type UserService interface {
	UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*models.User, error)
	GetUsers(ctx context.Context, filters models.UserFilters) ([]models.User, int, error)
	GetUserByID(ctx context.Context, userID int64) (*models.User, error)
	AdminUpdateUser(ctx context.Context, actor Actor, userID int64, req AdminUpdateUserRequest) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
	db       *sql.DB
}

func NewUserService(userRepo repositories.UserRepository, db *sql.DB) UserService {
	return &userService{userRepo: userRepo, db: db}
}

func (s *userService) UpdateProfile(ctx context.Context, userID int64, req UpdateProfileRequest) (*models.User, error) {
	if req.NewPassword != nil {
		if err := s.changePassword(ctx, userID, req.CurrentPassword, *req.NewPassword); err != nil {
			return nil, err
		}
	}

	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if req.FullName == nil && req.Phone == nil {
		return user, nil
	}

	if req.FullName != nil {
		if utils.IsEmpty(*req.FullName) {
			return nil, fmt.Errorf("%w: full name cannot be empty if provided", ErrValidation)
		}
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Phone != nil {
		user.Phone = utils.NewNullString(*req.Phone)
	}

	if err := s.userRepo.UpdateUser(ctx, s.db, user); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func (s *userService) changePassword(ctx context.Context, userID int64, current *string, next string) error {
	if current == nil || *current == "" {
		return ErrCurrentPasswordRequired
	}
	if !utils.IsValidPasswordLength(next, MinPasswordLength) {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, MinPasswordLength)
	}

	profile, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	withHash, err := s.userRepo.FindUserByEmail(ctx, profile.Email)
	if err != nil {
		return fmt.Errorf("failed to load credentials: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(withHash.PasswordHash), []byte(*current)); err != nil {
		return ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, s.db, userID, string(hashed)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *userService) GetUsers(ctx context.Context, filters models.UserFilters) ([]models.User, int, error) {
	filters.Page, filters.PageSize = normalizePage(filters.Page, filters.PageSize)
	users, total, err := s.userRepo.GetUsers(ctx, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get users: %w", err)
	}
	return users, total, nil
}

func (s *userService) GetUserByID(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

// AdminUpdateUser changes role, status, membership tier and loyalty points.
// Setting status INACTIVE soft-disables the account.
func (s *userService) AdminUpdateUser(ctx context.Context, actor Actor, userID int64, req AdminUpdateUserRequest) (*models.User, error) {
	user, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if actor.UserID == userID && (req.Role != nil || req.Status != nil) {
		return nil, ErrCannotModifySelf
	}

	if req.Role != nil {
		if !models.IsValidRole(*req.Role) {
			return nil, fmt.Errorf("%w: invalid role '%s'", ErrValidation, *req.Role)
		}
		user.Role = models.Role(*req.Role)
	}
	if req.Status != nil {
		if !models.IsValidUserStatus(*req.Status) {
			return nil, fmt.Errorf("%w: invalid status '%s'", ErrValidation, *req.Status)
		}
		user.Status = models.UserStatus(*req.Status)
	}
	if req.ClearTier {
		user.MembershipTier = nil
	} else if req.MembershipTier != nil {
		if !models.IsValidMembershipTier(*req.MembershipTier) {
			return nil, fmt.Errorf("%w: invalid membership tier '%s'", ErrValidation, *req.MembershipTier)
		}
		tier := models.MembershipTier(*req.MembershipTier)
		user.MembershipTier = &tier
	}
	if req.LoyaltyPoints != nil {
		if *req.LoyaltyPoints < 0 {
			return nil, fmt.Errorf("%w: loyalty points cannot be negative", ErrValidation)
		}
		user.LoyaltyPoints = *req.LoyaltyPoints
	}

	if err := s.userRepo.UpdateUser(ctx, s.db, user); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}
