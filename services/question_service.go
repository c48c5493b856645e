package services

import (
	"errors"

	"driverrating/models"

	"gorm.io/gorm"
)

type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

type CreateQuestionRequest struct {
	SurveyID   uint   `json:"survey_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
	Type       string `json:"question_type" binding:"required"`
	IsRequired *bool  `json:"is_required"`
	Order      int    `json:"order"`
}

type UpdateQuestionRequest struct {
	SurveyID   uint    `json:"survey_id"`
	Text       string  `json:"text"`
	Type       string  `json:"question_type"`
	IsRequired *bool   `json:"is_required"`
	Order      *int    `json:"order"`
}

func (s *QuestionService) GetQuestions() ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Order(`questions."order", questions.id`).Find(&questions).Error
	return questions, err
}

func (s *QuestionService) GetQuestionByID(questionID uint) (*models.Question, error) {
	var question models.Question
	err := s.db.First(&question, questionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) CreateQuestion(req *CreateQuestionRequest) (*models.Question, error) {
	if !models.IsValidQuestionType(req.Type) {
		return nil, errors.New("invalid question type")
	}

	var count int64
	if err := s.db.Model(&models.Survey{}).Where("id = ?", req.SurveyID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	question := models.Question{
		SurveyID:   req.SurveyID,
		Text:       req.Text,
		Type:       req.Type,
		IsRequired: true,
		Order:      req.Order,
	}
	if req.IsRequired != nil {
		question.IsRequired = *req.IsRequired
	}

	if err := s.db.Create(&question).Error; err != nil {
		return nil, err
	}
	return &question, nil
}

func (s *QuestionService) UpdateQuestion(questionID uint, req *UpdateQuestionRequest) (*models.Question, error) {
	question, err := s.GetQuestionByID(questionID)
	if err != nil {
		return nil, err
	}

	if req.Type != "" && !models.IsValidQuestionType(req.Type) {
		return nil, errors.New("invalid question type")
	}

	if req.SurveyID != 0 {
		question.SurveyID = req.SurveyID
	}
	if req.Text != "" {
		question.Text = req.Text
	}
	if req.Type != "" {
		question.Type = req.Type
	}
	if req.IsRequired != nil {
		question.IsRequired = *req.IsRequired
	}
	if req.Order != nil {
		question.Order = *req.Order
	}

	if err := s.db.Save(question).Error; err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes a question with its choices, plus any answers
// (and their selected choices) that were recorded against it.
func (s *QuestionService) DeleteQuestion(questionID uint) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var answerIDs []uint
	if err := tx.Model(&models.Answer{}).Where("question_id = ?", questionID).Pluck("id", &answerIDs).Error; err != nil {
		tx.Rollback()
		return err
	}
	if len(answerIDs) > 0 {
		if err := tx.Where("answer_id IN ?", answerIDs).Delete(&models.AnswerChoice{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("id IN ?", answerIDs).Delete(&models.Answer{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	var choiceIDs []uint
	if err := tx.Model(&models.Choice{}).Where("question_id = ?", questionID).Pluck("id", &choiceIDs).Error; err != nil {
		tx.Rollback()
		return err
	}
	if len(choiceIDs) > 0 {
		if err := tx.Where("choice_id IN ?", choiceIDs).Delete(&models.AnswerChoice{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("id IN ?", choiceIDs).Delete(&models.Choice{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	res := tx.Delete(&models.Question{}, questionID)
	if res.Error != nil {
		tx.Rollback()
		return res.Error
	}
	if res.RowsAffected == 0 {
		tx.Rollback()
		return ErrNotFound
	}

	return tx.Commit().Error
}
