package models

import (
	"fmt"
	"time"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

const slugMaxLength = 220

type Survey struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Slug        string    `json:"slug" gorm:"size:220;uniqueIndex;not null"`
	Description string    `json:"description"`
	IsActive    bool      `json:"is_active" gorm:"not null;default:false;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
	Responses []Response `json:"-" gorm:"foreignKey:SurveyID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate derives the slug from the title when none was given.
// Collisions are resolved with a numeric suffix: my-survey, my-survey-1, ...
// The slug is never regenerated on update.
func (s *Survey) BeforeCreate(tx *gorm.DB) error {
	if s.Slug != "" {
		return nil
	}

	base := slug.Make(s.Title)
	if base == "" {
		base = "survey"
	}
	if len(base) > slugMaxLength {
		base = base[:slugMaxLength]
	}

	candidate := base
	for suffix := 1; ; suffix++ {
		var count int64
		if err := tx.Model(&Survey{}).Where("slug = ?", candidate).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			break
		}
		tail := fmt.Sprintf("-%d", suffix)
		head := base
		if len(head)+len(tail) > slugMaxLength {
			head = head[:slugMaxLength-len(tail)]
		}
		candidate = head + tail
	}

	s.Slug = candidate
	return nil
}
