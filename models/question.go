package models

const (
	QuestionTypeRating = "rating"
	QuestionTypeSingle = "single"
	QuestionTypeMulti  = "multi"
	QuestionTypeText   = "text"
)

type Question struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	SurveyID   uint   `json:"survey_id" gorm:"not null;index:idx_questions_survey_order,priority:1"`
	Text       string `json:"text" gorm:"size:500;not null"`
	Type       string `json:"question_type" gorm:"column:question_type;size:20;not null"`
	IsRequired bool   `json:"is_required" gorm:"not null;default:true"`
	Order      int    `json:"order" gorm:"not null;default:0;index:idx_questions_survey_order,priority:2"`

	// Relationships
	Survey  Survey   `json:"-" gorm:"foreignKey:SurveyID"`
	Choices []Choice `json:"choices,omitempty" gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE"`
}

// IsValidQuestionType reports whether t is one of the supported question types.
func IsValidQuestionType(t string) bool {
	switch t {
	case QuestionTypeRating, QuestionTypeSingle, QuestionTypeMulti, QuestionTypeText:
		return true
	}
	return false
}
