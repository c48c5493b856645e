package services

import (
	"testing"

	"driverrating/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateSurveyDerivesSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db)

	survey, err := svc.CreateSurvey(&CreateSurveyRequest{Title: "Driver Feedback, March!"})
	require.NoError(t, err)
	assert.Equal(t, "driver-feedback-march", survey.Slug)
	assert.True(t, survey.IsActive)
}

func TestCreateSurveySlugCollisionGetsSuffix(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db)

	first, err := svc.CreateSurvey(&CreateSurveyRequest{Title: "My Survey"})
	require.NoError(t, err)
	assert.Equal(t, "my-survey", first.Slug)

	second, err := svc.CreateSurvey(&CreateSurveyRequest{Title: "My Survey"})
	require.NoError(t, err)
	assert.Equal(t, "my-survey-1", second.Slug)

	third, err := svc.CreateSurvey(&CreateSurveyRequest{Title: "My Survey"})
	require.NoError(t, err)
	assert.Equal(t, "my-survey-2", third.Slug)
}

func TestCreateSurveyExplicitSlugConflict(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db)

	_, err := svc.CreateSurvey(&CreateSurveyRequest{Title: "First", Slug: "taken"})
	require.NoError(t, err)

	_, err = svc.CreateSurvey(&CreateSurveyRequest{Title: "Second", Slug: "taken"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUpdateSurveyKeepsSlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db)

	survey, err := svc.CreateSurvey(&CreateSurveyRequest{Title: "Original Title"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateSurvey(survey.ID, &UpdateSurveyRequest{
		Title:    "Renamed Title",
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Title", updated.Title)
	assert.Equal(t, "original-title", updated.Slug)
	assert.False(t, updated.IsActive)

	_, err = svc.UpdateSurvey(9999, &UpdateSurveyRequest{Title: "Nope"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetActiveSurveyBySlug(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db)

	survey := createTestSurvey(t, db, "Open", true)
	require.NoError(t, db.Model(survey).Update("slug", "open").Error)
	second := createTestQuestion(t, db, survey.ID, "Second", models.QuestionTypeText, 2)
	first := createTestQuestion(t, db, survey.ID, "First", models.QuestionTypeRating, 1)
	createTestChoice(t, db, first.ID, "B", 2)
	createTestChoice(t, db, first.ID, "A", 1)

	closed := createTestSurvey(t, db, "Closed", false)
	require.NoError(t, db.Model(closed).Update("slug", "closed").Error)

	found, err := svc.GetActiveSurveyBySlug("open")
	require.NoError(t, err)
	require.Len(t, found.Questions, 2)
	assert.Equal(t, first.ID, found.Questions[0].ID)
	assert.Equal(t, second.ID, found.Questions[1].ID)
	require.Len(t, found.Questions[0].Choices, 2)
	assert.Equal(t, "A", found.Questions[0].Choices[0].Text)
	assert.Equal(t, "B", found.Questions[0].Choices[1].Text)

	_, err = svc.GetActiveSurveyBySlug("closed")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetActiveSurveyBySlug("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetActiveSurveysSkipsInactive(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db)

	createTestSurvey(t, db, "Open", true)
	createTestSurvey(t, db, "Closed", false)

	surveys, err := svc.GetActiveSurveys()
	require.NoError(t, err)
	require.Len(t, surveys, 1)
	assert.Equal(t, "Open", surveys[0].Title)
}

func TestDeleteSurveyCascades(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSurveyService(db)
	submissions := NewSubmissionService(db)

	survey := createTestSurvey(t, db, "Doomed", true)
	multi := createTestQuestion(t, db, survey.ID, "Pick", models.QuestionTypeMulti, 1)
	choice := createTestChoice(t, db, multi.ID, "One", 1)
	driver := createTestDriver(t, db, "Aibek", true)

	other := createTestSurvey(t, db, "Survivor", true)
	otherQuestion := createTestQuestion(t, db, other.ID, "Rate", models.QuestionTypeRating, 1)

	_, err := submissions.CreateResponse("10.0.0.1", &CreateResponseRequest{
		SurveyID: survey.ID,
		DriverID: driver.ID,
		Answers:  []AnswerInput{{QuestionID: multi.ID, ChoiceIDs: []uint{choice.ID}}},
	})
	require.NoError(t, err)
	_, err = submissions.CreateResponse("10.0.0.1", &CreateResponseRequest{
		SurveyID: other.ID,
		DriverID: driver.ID,
		Answers:  []AnswerInput{{QuestionID: otherQuestion.ID, RatingValue: intPtr(5)}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSurvey(survey.ID))

	assert.Equal(t, int64(1), countRows(t, db, &models.Survey{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Question{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Choice{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Response{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Answer{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.AnswerChoice{}))

	assert.ErrorIs(t, svc.DeleteSurvey(survey.ID), ErrNotFound)
}
