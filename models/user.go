package models

import "time"

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-" gorm:"not null"`
	IsStaff      bool      `json:"is_staff" gorm:"not null;default:false"`
	IsSuperuser  bool      `json:"-" gorm:"not null;default:false"`
	IsActive     bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// AuthToken is a reusable opaque API token, one per user.
type AuthToken struct {
	ID        uint      `json:"-" gorm:"primaryKey"`
	Key       string    `json:"key" gorm:"size:40;uniqueIndex;not null"`
	UserID    uint      `json:"-" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"-"`

	// Relationships
	User User `json:"-" gorm:"foreignKey:UserID"`
}
