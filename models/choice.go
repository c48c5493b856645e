package models

type Choice struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Text       string `json:"text" gorm:"size:200;not null"`
	Order      int    `json:"order" gorm:"not null;default:0"`

	// Relationships
	Question Question `json:"-" gorm:"foreignKey:QuestionID"`
}
