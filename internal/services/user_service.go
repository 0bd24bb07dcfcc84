package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound = apperr.New(apperr.KindNotFound, "No user found with the entered ID")
	ErrNotSelf      = apperr.New(apperr.KindForbidden, "The current user can't access this resource")
)

type UserService struct {
	db      *gorm.DB
	hasher  Hasher
	ratings *RatingAggregator
}

func NewUserService(db *gorm.DB, hasher Hasher, ratings *RatingAggregator) *UserService {
	return &UserService{db: db, hasher: hasher, ratings: ratings}
}

func (s *UserService) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Create is the admin path for adding an account with an explicit role.
func (s *UserService) Create(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", req.Email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	user := models.User{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Role:  req.Role,
	}
	if err := setPassword(s.hasher, &user, req.Password); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// Update changes the actor's own profile. A role change is honored only
// when the actor is an admin.
func (s *UserService) Update(ctx context.Context, actor *models.User, id uuid.UUID, req *dto.UpdateUserRequest) (*models.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID != actor.ID {
		return nil, ErrNotSelf
	}

	updates := map[string]interface{}{
		"name":  req.Name,
		"phone": req.Phone,
	}
	if actor.Role == models.RoleAdmin && req.Role != "" {
		updates["role"] = req.Role
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return s.FindByID(ctx, id)
}

// Delete removes the actor's own account and its reviews, then recomputes
// the average rating of every product those reviews belonged to.
func (s *UserService) Delete(ctx context.Context, actor *models.User, id uuid.UUID) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.ID != actor.ID {
		return ErrNotSelf
	}

	var affected []uuid.UUID
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Review{}).
			Where("user_id = ?", user.ID).
			Distinct().
			Pluck("product_id", &affected).Error; err != nil {
			return fmt.Errorf("failed to collect reviewed products: %w", err)
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Review{}).Error; err != nil {
			return fmt.Errorf("failed to delete user reviews: %w", err)
		}
		if err := tx.Delete(&models.User{}, "id = ?", user.ID).Error; err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.ratings.RecomputeAll(ctx, affected); err != nil {
		slog.Error("average rating recompute failed after user delete", "user_id", user.ID.String(), "action", "recompute_rating", "error", err)
	}
	slog.Info("user deleted", "user_id", user.ID.String(), "products_recomputed", len(affected))
	return nil
}
