package models

type Answer struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	ResponseID  uint   `json:"response_id" gorm:"not null;uniqueIndex:idx_answers_response_question,priority:1"`
	QuestionID  uint   `json:"question_id" gorm:"not null;uniqueIndex:idx_answers_response_question,priority:2;index"`
	RatingValue *int   `json:"rating_value"`
	TextValue   string `json:"text_value"`

	// Relationships
	Response      Response       `json:"-" gorm:"foreignKey:ResponseID"`
	Question      Question       `json:"-" gorm:"foreignKey:QuestionID"`
	AnswerChoices []AnswerChoice `json:"answer_choices,omitempty" gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE"`
}

type AnswerChoice struct {
	ID       uint `json:"id" gorm:"primaryKey"`
	AnswerID uint `json:"answer_id" gorm:"not null;uniqueIndex:idx_answer_choices_answer_choice,priority:1"`
	ChoiceID uint `json:"choice_id" gorm:"not null;uniqueIndex:idx_answer_choices_answer_choice,priority:2"`

	// Relationships
	Choice Choice `json:"choice,omitempty" gorm:"foreignKey:ChoiceID"`
}
