package services

import (
	"testing"

	"driverrating/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// Keep every query on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.AuthToken{},
		&models.Driver{},
		&models.Survey{},
		&models.Question{},
		&models.Choice{},
		&models.Response{},
		&models.Answer{},
		&models.AnswerChoice{},
	))
	return db
}

func createTestSurvey(t *testing.T, db *gorm.DB, title string, active bool) *models.Survey {
	t.Helper()
	survey := models.Survey{Title: title, IsActive: active}
	require.NoError(t, db.Create(&survey).Error)
	return &survey
}

func createTestDriver(t *testing.T, db *gorm.DB, name string, active bool) *models.Driver {
	t.Helper()
	driver := models.Driver{Name: name, IsActive: active}
	require.NoError(t, db.Create(&driver).Error)
	return &driver
}

func createTestQuestion(t *testing.T, db *gorm.DB, surveyID uint, text, questionType string, order int) *models.Question {
	t.Helper()
	question := models.Question{
		SurveyID:   surveyID,
		Text:       text,
		Type:       questionType,
		IsRequired: true,
		Order:      order,
	}
	require.NoError(t, db.Create(&question).Error)
	return &question
}

func createTestChoice(t *testing.T, db *gorm.DB, questionID uint, text string, order int) *models.Choice {
	t.Helper()
	choice := models.Choice{QuestionID: questionID, Text: text, Order: order}
	require.NoError(t, db.Create(&choice).Error)
	return &choice
}

func intPtr(v int) *int {
	return &v
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
