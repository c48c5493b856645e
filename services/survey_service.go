package services

import (
	"errors"

	"driverrating/models"

	"gorm.io/gorm"
)

type SurveyService struct {
	db *gorm.DB
}

func NewSurveyService(db *gorm.DB) *SurveyService {
	return &SurveyService{db: db}
}

type CreateSurveyRequest struct {
	Title       string `json:"title" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsActive    *bool  `json:"is_active"`
}

type UpdateSurveyRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

// GetActiveSurveys returns active surveys with their questions and choices
// nested in presentation order.
func (s *SurveyService) GetActiveSurveys() ([]models.Survey, error) {
	var surveys []models.Survey
	err := s.db.Where("is_active = ?", true).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order", questions.id`)
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order(`choices."order", choices.id`)
		}).
		Order("created_at DESC").
		Find(&surveys).Error
	return surveys, err
}

func (s *SurveyService) GetActiveSurveyBySlug(slug string) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.Where("slug = ? AND is_active = ?", slug, true).
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order", questions.id`)
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order(`choices."order", choices.id`)
		}).
		First(&survey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &survey, nil
}

func (s *SurveyService) GetSurveys() ([]models.Survey, error) {
	var surveys []models.Survey
	err := s.db.Order("created_at DESC").Find(&surveys).Error
	return surveys, err
}

func (s *SurveyService) GetSurveyByID(surveyID uint) (*models.Survey, error) {
	var survey models.Survey
	err := s.db.First(&survey, surveyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &survey, nil
}

func (s *SurveyService) CreateSurvey(req *CreateSurveyRequest) (*models.Survey, error) {
	survey := models.Survey{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		IsActive:    true,
	}
	if req.IsActive != nil {
		survey.IsActive = *req.IsActive
	}

	if err := s.db.Create(&survey).Error; err != nil {
		return nil, err
	}
	return &survey, nil
}

// UpdateSurvey changes title, description and active flag. The slug is
// immutable once set.
func (s *SurveyService) UpdateSurvey(surveyID uint, req *UpdateSurveyRequest) (*models.Survey, error) {
	survey, err := s.GetSurveyByID(surveyID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		survey.Title = req.Title
	}
	if req.Description != nil {
		survey.Description = *req.Description
	}
	if req.IsActive != nil {
		survey.IsActive = *req.IsActive
	}

	if err := s.db.Save(survey).Error; err != nil {
		return nil, err
	}
	return survey, nil
}

// DeleteSurvey removes a survey together with its questions, choices,
// responses, answers and answer choices, all-or-nothing.
func (s *SurveyService) DeleteSurvey(surveyID uint) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if _, err := deleteResponseRows(tx, tx.Model(&models.Response{}).Where("survey_id = ?", surveyID)); err != nil {
		tx.Rollback()
		return err
	}

	var questionIDs []uint
	if err := tx.Model(&models.Question{}).Where("survey_id = ?", surveyID).Pluck("id", &questionIDs).Error; err != nil {
		tx.Rollback()
		return err
	}
	if len(questionIDs) > 0 {
		if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Choice{}).Error; err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Where("survey_id = ?", surveyID).Delete(&models.Question{}).Error; err != nil {
			tx.Rollback()
			return err
		}
	}

	res := tx.Delete(&models.Survey{}, surveyID)
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
