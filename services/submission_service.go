package services

import (
	"errors"

	"driverrating/models"

	"gorm.io/gorm"
)

type SubmissionService struct {
	db *gorm.DB
}

func NewSubmissionService(db *gorm.DB) *SubmissionService {
	return &SubmissionService{db: db}
}

type AnswerInput struct {
	QuestionID  uint   `json:"question_id" binding:"required"`
	RatingValue *int   `json:"rating_value" binding:"omitempty,min=1,max=5"`
	TextValue   string `json:"text_value"`
	ChoiceIDs   []uint `json:"choice_ids"`
}

type CreateResponseRequest struct {
	SurveyID uint          `json:"survey_id" binding:"required"`
	DriverID uint          `json:"driver_id" binding:"required"`
	Answers  []AnswerInput `json:"answers" binding:"required"`
}

type DeleteResponsesRequest struct {
	SurveyID uint `json:"survey_id"`
	DriverID uint `json:"driver_id"`
}

// CreateResponse records one driver's submission for one survey.
//
// Validation order: the survey must exist and be active, the driver must
// exist and be active, and no response may already exist for the pair.
// All rows (response, answers, answer choices) are written in a single
// transaction. Answers referencing questions outside the survey are
// silently dropped, as are choice ids that do not belong to the answered
// question.
func (s *SubmissionService) CreateResponse(ip string, req *CreateResponseRequest) (*models.Response, error) {
	var survey models.Survey
	if err := s.db.Where("id = ? AND is_active = ?", req.SurveyID, true).
		Preload("Questions").
		Preload("Questions.Choices").
		First(&survey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSurveyNotFound
		}
		return nil, err
	}

	var driver models.Driver
	if err := s.db.Where("id = ? AND is_active = ?", req.DriverID, true).
		First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}

	var existing int64
	if err := s.db.Model(&models.Response{}).
		Where("survey_id = ? AND driver_id = ?", survey.ID, driver.ID).
		Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, ErrAlreadySubmitted
	}

	questionMap := make(map[uint]*models.Question, len(survey.Questions))
	for i := range survey.Questions {
		questionMap[survey.Questions[i].ID] = &survey.Questions[i]
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	response := models.Response{
		SurveyID:  survey.ID,
		DriverID:  driver.ID,
		IPAddress: ip,
	}
	if err := tx.Create(&response).Error; err != nil {
		tx.Rollback()
		// The unique index catches the losing writer of two concurrent
		// submissions for the same pair.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySubmitted
		}
		return nil, err
	}

	for _, input := range req.Answers {
		question, ok := questionMap[input.QuestionID]
		if !ok {
			continue
		}

		answer := models.Answer{
			ResponseID:  response.ID,
			QuestionID:  question.ID,
			RatingValue: input.RatingValue,
			TextValue:   input.TextValue,
		}
		if err := tx.Create(&answer).Error; err != nil {
			tx.Rollback()
			return nil, err
		}

		if len(input.ChoiceIDs) == 0 {
			continue
		}
		valid := make(map[uint]bool, len(question.Choices))
		for _, choice := range question.Choices {
			valid[choice.ID] = true
		}
		var answerChoices []models.AnswerChoice
		for _, choiceID := range input.ChoiceIDs {
			if !valid[choiceID] {
				continue
			}
			valid[choiceID] = false // drop duplicates in the payload
			answerChoices = append(answerChoices, models.AnswerChoice{
				AnswerID: answer.ID,
				ChoiceID: choiceID,
			})
		}
		if len(answerChoices) > 0 {
			if err := tx.Create(&answerChoices).Error; err != nil {
				tx.Rollback()
				return nil, err
			}
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &response, nil
}

// DeleteResponses bulk-deletes responses matching the optional survey and
// driver filters, cascading to answers and answer choices. Returns the
// number of responses removed. Irreversible.
func (s *SubmissionService) DeleteResponses(req *DeleteResponsesRequest) (int64, error) {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	query := tx.Model(&models.Response{})
	if req.SurveyID != 0 {
		query = query.Where("survey_id = ?", req.SurveyID)
	}
	if req.DriverID != 0 {
		query = query.Where("driver_id = ?", req.DriverID)
	}

	deleted, err := deleteResponseRows(tx, query)
	if err != nil {
		tx.Rollback()
		return 0, err
	}

	if err := tx.Commit().Error; err != nil {
		return 0, err
	}
	return deleted, nil
}

// deleteResponseRows deletes the responses matched by query along with
// their answers and answer choices, returning how many responses went away.
func deleteResponseRows(tx *gorm.DB, query *gorm.DB) (int64, error) {
	var responseIDs []uint
	if err := query.Pluck("id", &responseIDs).Error; err != nil {
		return 0, err
	}
	if len(responseIDs) == 0 {
		return 0, nil
	}

	var answerIDs []uint
	if err := tx.Model(&models.Answer{}).Where("response_id IN ?", responseIDs).Pluck("id", &answerIDs).Error; err != nil {
		return 0, err
	}
	if len(answerIDs) > 0 {
		if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.AnswerChoice{}).Error; err != nil {
			return 0, err
		}
		if err := tx.Where("response_id IN ?", responseIDs).Delete(&models.Answer{}).Error; err != nil {
			return 0, err
		}
	}
	if err := tx.Where("id IN ?", responseIDs).Delete(&models.Response{}).Error; err != nil {
		return 0, err
	}
	return int64(len(responseIDs)), nil
}
