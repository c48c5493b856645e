package models

import "time"

// Response is one driver's completed submission for one survey.
// The composite unique index is what makes "one response per survey per
// driver" hold even for two near-simultaneous submissions: the second
// writer hits the constraint and is surfaced as a conflict.
type Response struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SurveyID    uint      `json:"survey_id" gorm:"not null;uniqueIndex:idx_responses_survey_driver,priority:1"`
	DriverID    uint      `json:"driver_id" gorm:"not null;uniqueIndex:idx_responses_survey_driver,priority:2"`
	IPAddress   string    `json:"ip_address"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"autoCreateTime;index"`

	// Relationships
	Survey  Survey   `json:"-" gorm:"foreignKey:SurveyID"`
	Driver  Driver   `json:"-" gorm:"foreignKey:DriverID;constraint:OnDelete:RESTRICT"`
	Answers []Answer `json:"answers,omitempty" gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE"`
}
