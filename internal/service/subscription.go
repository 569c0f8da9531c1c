package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/apperr"
	"github.com/platefeed/backend/internal/models"
)

// AuthorSummary is the representation of a followed author: the user,
// their recipes in short form, and the recipe count.
type AuthorSummary struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	Username     string          `json:"username"`
	FirstName    string          `json:"first_name"`
	LastName     string          `json:"last_name"`
	IsSubscribed bool            `json:"is_subscribed"`
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int             `json:"recipes_count"`
}

// SubscriptionService toggles follower/author relations.
type SubscriptionService struct {
	db *gorm.DB
}

func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{db: db}
}

// Add subscribes the follower to the author. Self-follow is a validation
// error; a duplicate pair is a conflict.
func (s *SubscriptionService) Add(ctx context.Context, followerID, authorID uuid.UUID) (*AuthorSummary, error) {
	if followerID == authorID {
		return nil, apperr.Validation("cannot subscribe to yourself")
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Internal("failed to load user", err)
	}

	var existing models.Subscription
	err := s.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		First(&existing).Error
	if err == nil {
		return nil, apperr.Conflict("subscription already exists")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to check subscription", err)
	}

	sub := models.Subscription{FollowerID: followerID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("subscription already exists")
		}
		return nil, apperr.Internal("failed to create subscription", err)
	}

	return s.summarizeAuthor(ctx, &author)
}

// Remove unsubscribes. Removing a subscription that does not exist is a
// clean not-found.
func (s *SubscriptionService) Remove(ctx context.Context, followerID, authorID uuid.UUID) error {
	result := s.db.WithContext(ctx).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Delete(&models.Subscription{})
	if result.Error != nil {
		return apperr.Internal("failed to remove subscription", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("subscription not found")
	}
	return nil
}

// List returns every author the user follows, each with their recipes.
func (s *SubscriptionService) List(ctx context.Context, followerID uuid.UUID) ([]AuthorSummary, error) {
	var authors []models.User
	err := s.db.WithContext(ctx).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.follower_id = ?", followerID).
		Order("users.last_name, users.first_name").
		Find(&authors).Error
	if err != nil {
		return nil, apperr.Internal("failed to list subscriptions", err)
	}

	summaries := make([]AuthorSummary, 0, len(authors))
	for i := range authors {
		summary, err := s.summarizeAuthor(ctx, &authors[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, *summary)
	}
	return summaries, nil
}

// IsSubscribed reports whether follower follows author. A viewer is
// never subscribed to themselves.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, followerID, authorID uuid.UUID) (bool, error) {
	if followerID == authorID {
		return false, nil
	}
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("follower_id = ? AND author_id = ?", followerID, authorID).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("failed to check subscription", err)
	}
	return count > 0, nil
}

// FollowedAuthorIDs returns the set of author ids the follower
// subscribes to, for batch-annotating user listings.
func (s *SubscriptionService) FollowedAuthorIDs(ctx context.Context, followerID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	err := s.db.WithContext(ctx).Model(&models.Subscription{}).
		Where("follower_id = ?", followerID).
		Pluck("author_id", &ids).Error
	if err != nil {
		return nil, apperr.Internal("failed to load subscriptions", err)
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func (s *SubscriptionService) summarizeAuthor(ctx context.Context, author *models.User) (*AuthorSummary, error) {
	var recipes []models.Recipe
	err := s.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC").
		Find(&recipes).Error
	if err != nil {
		return nil, apperr.Internal("failed to load author recipes", err)
	}

	summaries := make([]RecipeSummary, len(recipes))
	for i := range recipes {
		summaries[i] = summarize(&recipes[i])
	}

	return &AuthorSummary{
		ID:           author.ID,
		Email:        author.Email,
		Username:     author.Username,
		FirstName:    author.FirstName,
		LastName:     author.LastName,
		IsSubscribed: true,
		Recipes:      summaries,
		RecipesCount: len(summaries),
	}, nil
}
