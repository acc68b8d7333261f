package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Applicant is a prospective worker who passed social-account verification.
// Identity is the (email, phone) pair: the same email may reappear with a
// different phone as a distinct applicant, but the pair is unique.
type Applicant struct {
	ID              uint                `gorm:"primaryKey" json:"id"`
	PublicID        string              `gorm:"size:36;uniqueIndex" json:"public_id"`
	Email           string              `gorm:"size:254;not null;uniqueIndex:idx_applicant_identity" json:"email"`
	Phone           string              `gorm:"size:32;not null;uniqueIndex:idx_applicant_identity" json:"phone"`
	RedditUsername  string              `gorm:"size:40;not null" json:"reddit_username"`
	InstagramHandle string              `gorm:"size:64" json:"instagram_handle,omitempty"`
	TwitterHandle   string              `gorm:"size:64" json:"twitter_handle,omitempty"`
	TiktokHandle    string              `gorm:"size:64" json:"tiktok_handle,omitempty"`
	Verified        bool                `gorm:"not null;default:false" json:"verified"`
	Requests        []ContractorRequest `gorm:"foreignKey:ApplicantID" json:"requests,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// BeforeCreate assigns the public identifier used in API responses.
func (a *Applicant) BeforeCreate(_ *gorm.DB) error {
	if a.PublicID == "" {
		a.PublicID = uuid.NewString()
	}
	return nil
}
