package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID      `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"size:254;uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"size:150;uniqueIndex;not null" json:"username"`
	FirstName    string         `gorm:"size:150;not null" json:"first_name"`
	LastName     string         `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string         `gorm:"not null" json:"-"`

	// Viewer-relative, never persisted.
	IsSubscribed bool `gorm:"-" json:"is_subscribed"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Subscription links a follower to an author. Self-follow is rejected by
// the service before the row is ever written.
type Subscription struct {
	ID         uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	FollowerID uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_follower_author" json:"follower_id"`
	AuthorID   uuid.UUID `gorm:"type:varchar(36);not null;index;uniqueIndex:idx_follower_author" json:"author_id"`

	Follower *User `gorm:"foreignKey:FollowerID;constraint:OnDelete:CASCADE" json:"-"`
	Author   *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
