package services

import (
	"errors"

	"driverrating/models"

	"gorm.io/gorm"
)

type ChoiceService struct {
	db *gorm.DB
}

func NewChoiceService(db *gorm.DB) *ChoiceService {
	return &ChoiceService{db: db}
}

type CreateChoiceRequest struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	Text       string `json:"text" binding:"required"`
	Order      int    `json:"order"`
}

type UpdateChoiceRequest struct {
	QuestionID uint   `json:"question_id"`
	Text       string `json:"text"`
	Order      *int   `json:"order"`
}

func (s *ChoiceService) GetChoices() ([]models.Choice, error) {
	var choices []models.Choice
	err := s.db.Order(`choices."order", choices.id`).Find(&choices).Error
	return choices, err
}

func (s *ChoiceService) GetChoiceByID(choiceID uint) (*models.Choice, error) {
	var choice models.Choice
	err := s.db.First(&choice, choiceID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &choice, nil
}

func (s *ChoiceService) CreateChoice(req *CreateChoiceRequest) (*models.Choice, error) {
	var count int64
	if err := s.db.Model(&models.Question{}).Where("id = ?", req.QuestionID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNotFound
	}

	choice := models.Choice{
		QuestionID: req.QuestionID,
		Text:       req.Text,
		Order:      req.Order,
	}
	if err := s.db.Create(&choice).Error; err != nil {
		return nil, err
	}
	return &choice, nil
}

func (s *ChoiceService) UpdateChoice(choiceID uint, req *UpdateChoiceRequest) (*models.Choice, error) {
	choice, err := s.GetChoiceByID(choiceID)
	if err != nil {
		return nil, err
	}

	if req.QuestionID != 0 {
		choice.QuestionID = req.QuestionID
	}
	if req.Text != "" {
		choice.Text = req.Text
	}
	if req.Order != nil {
		choice.Order = *req.Order
	}

	if err := s.db.Save(choice).Error; err != nil {
		return nil, err
	}
	return choice, nil
}

func (s *ChoiceService) DeleteChoice(choiceID uint) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("choice_id = ?", choiceID).Delete(&models.AnswerChoice{}).Error; err != nil {
		tx.Rollback()
		return err
	}

	res := tx.Delete(&models.Choice{}, choiceID)
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
