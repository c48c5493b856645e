package services

import (
	"testing"

	"driverrating/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateResponsePersistsAllRows(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)

	survey := createTestSurvey(t, db, "Ride Quality", true)
	driver := createTestDriver(t, db, "Aibek", true)
	rating := createTestQuestion(t, db, survey.ID, "Rate the ride", models.QuestionTypeRating, 1)
	multi := createTestQuestion(t, db, survey.ID, "What went well?", models.QuestionTypeMulti, 2)
	clean := createTestChoice(t, db, multi.ID, "Clean car", 1)
	polite := createTestChoice(t, db, multi.ID, "Polite", 2)
	text := createTestQuestion(t, db, survey.ID, "Anything else?", models.QuestionTypeText, 3)

	response, err := svc.CreateResponse("10.0.0.1", &CreateResponseRequest{
		SurveyID: survey.ID,
		DriverID: driver.ID,
		Answers: []AnswerInput{
			{QuestionID: rating.ID, RatingValue: intPtr(5)},
			{QuestionID: multi.ID, ChoiceIDs: []uint{clean.ID, polite.ID}},
			{QuestionID: text.ID, TextValue: "Great trip"},
		},
	})
	require.NoError(t, err)
	require.NotNil(t, response)
	assert.Equal(t, "10.0.0.1", response.IPAddress)
	assert.False(t, response.SubmittedAt.IsZero())

	assert.Equal(t, int64(1), countRows(t, db, &models.Response{}))
	assert.Equal(t, int64(3), countRows(t, db, &models.Answer{}))
	assert.Equal(t, int64(2), countRows(t, db, &models.AnswerChoice{}))
}

func TestCreateResponseRejectsSecondSubmission(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)

	survey := createTestSurvey(t, db, "Ride Quality", true)
	driver := createTestDriver(t, db, "Aibek", true)
	question := createTestQuestion(t, db, survey.ID, "Rate the ride", models.QuestionTypeRating, 1)

	req := &CreateResponseRequest{
		SurveyID: survey.ID,
		DriverID: driver.ID,
		Answers:  []AnswerInput{{QuestionID: question.ID, RatingValue: intPtr(4)}},
	}

	_, err := svc.CreateResponse("10.0.0.1", req)
	require.NoError(t, err)

	_, err = svc.CreateResponse("10.0.0.2", req)
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	assert.Equal(t, int64(1), countRows(t, db, &models.Response{}))
	assert.Equal(t, int64(1), countRows(t, db, &models.Answer{}))
}

func TestCreateResponseRequiresActiveSurveyAndDriver(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)

	inactiveSurvey := createTestSurvey(t, db, "Closed", false)
	activeSurvey := createTestSurvey(t, db, "Open", true)
	question := createTestQuestion(t, db, activeSurvey.ID, "Rate", models.QuestionTypeRating, 1)
	activeDriver := createTestDriver(t, db, "Aibek", true)
	inactiveDriver := createTestDriver(t, db, "Marat", false)

	answers := []AnswerInput{{QuestionID: question.ID, RatingValue: intPtr(3)}}

	_, err := svc.CreateResponse("10.0.0.1", &CreateResponseRequest{
		SurveyID: inactiveSurvey.ID, DriverID: activeDriver.ID, Answers: answers,
	})
	assert.ErrorIs(t, err, ErrSurveyNotFound)

	_, err = svc.CreateResponse("10.0.0.1", &CreateResponseRequest{
		SurveyID: 9999, DriverID: activeDriver.ID, Answers: answers,
	})
	assert.ErrorIs(t, err, ErrSurveyNotFound)

	_, err = svc.CreateResponse("10.0.0.1", &CreateResponseRequest{
		SurveyID: activeSurvey.ID, DriverID: inactiveDriver.ID, Answers: answers,
	})
	assert.ErrorIs(t, err, ErrDriverNotFound)

	_, err = svc.CreateResponse("10.0.0.1", &CreateResponseRequest{
		SurveyID: activeSurvey.ID, DriverID: 9999, Answers: answers,
	})
	assert.ErrorIs(t, err, ErrDriverNotFound)

	assert.Equal(t, int64(0), countRows(t, db, &models.Response{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Answer{}))
}

func TestCreateResponseDropsForeignQuestions(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)

	survey := createTestSurvey(t, db, "Ride Quality", true)
	other := createTestSurvey(t, db, "Other", true)
	own := createTestQuestion(t, db, survey.ID, "Rate", models.QuestionTypeRating, 1)
	foreign := createTestQuestion(t, db, other.ID, "Not yours", models.QuestionTypeText, 1)
	driver := createTestDriver(t, db, "Aibek", true)

	_, err := svc.CreateResponse("10.0.0.1", &CreateResponseRequest{
		SurveyID: survey.ID,
		DriverID: driver.ID,
		Answers: []AnswerInput{
			{QuestionID: own.ID, RatingValue: intPtr(5)},
			{QuestionID: foreign.ID, TextValue: "smuggled"},
			{QuestionID: 12345, TextValue: "nonexistent"},
		},
	})
	require.NoError(t, err)

	var answers []models.Answer
	require.NoError(t, db.Find(&answers).Error)
	require.Len(t, answers, 1)
	assert.Equal(t, own.ID, answers[0].QuestionID)
}

func TestCreateResponseFiltersChoices(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)

	survey := createTestSurvey(t, db, "Ride Quality", true)
	multi := createTestQuestion(t, db, survey.ID, "What went well?", models.QuestionTypeMulti, 1)
	valid := createTestChoice(t, db, multi.ID, "Clean car", 1)
	otherQuestion := createTestQuestion(t, db, survey.ID, "Other", models.QuestionTypeSingle, 2)
	foreign := createTestChoice(t, db, otherQuestion.ID, "Wrong question", 1)
	driver := createTestDriver(t, db, "Aibek", true)

	_, err := svc.CreateResponse("10.0.0.1", &CreateResponseRequest{
		SurveyID: survey.ID,
		DriverID: driver.ID,
		Answers: []AnswerInput{
			// Repeated and foreign choice ids must not produce rows.
			{QuestionID: multi.ID, ChoiceIDs: []uint{valid.ID, valid.ID, foreign.ID, 9999}},
		},
	})
	require.NoError(t, err)

	var answerChoices []models.AnswerChoice
	require.NoError(t, db.Find(&answerChoices).Error)
	require.Len(t, answerChoices, 1)
	assert.Equal(t, valid.ID, answerChoices[0].ChoiceID)
}

func TestDeleteResponsesFilters(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)

	surveyA := createTestSurvey(t, db, "Survey A", true)
	surveyB := createTestSurvey(t, db, "Survey B", true)
	questionA := createTestQuestion(t, db, surveyA.ID, "Rate", models.QuestionTypeRating, 1)
	questionB := createTestQuestion(t, db, surveyB.ID, "Rate", models.QuestionTypeRating, 1)
	driver1 := createTestDriver(t, db, "Aibek", true)
	driver2 := createTestDriver(t, db, "Marat", true)

	for _, pair := range []struct {
		survey   *models.Survey
		question *models.Question
		driver   *models.Driver
	}{
		{surveyA, questionA, driver1},
		{surveyA, questionA, driver2},
		{surveyB, questionB, driver1},
		{surveyB, questionB, driver2},
	} {
		_, err := svc.CreateResponse("10.0.0.1", &CreateResponseRequest{
			SurveyID: pair.survey.ID,
			DriverID: pair.driver.ID,
			Answers:  []AnswerInput{{QuestionID: pair.question.ID, RatingValue: intPtr(4)}},
		})
		require.NoError(t, err)
	}

	deleted, err := svc.DeleteResponses(&DeleteResponsesRequest{SurveyID: surveyA.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining []models.Response
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 2)
	for _, response := range remaining {
		assert.Equal(t, surveyB.ID, response.SurveyID)
	}
	assert.Equal(t, int64(2), countRows(t, db, &models.Answer{}))

	deleted, err = svc.DeleteResponses(&DeleteResponsesRequest{SurveyID: surveyB.ID, DriverID: driver1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = svc.DeleteResponses(&DeleteResponsesRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	assert.Equal(t, int64(0), countRows(t, db, &models.Response{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.Answer{}))
	assert.Equal(t, int64(0), countRows(t, db, &models.AnswerChoice{}))
}

func TestDeleteResponsesNoMatches(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)

	deleted, err := svc.DeleteResponses(&DeleteResponsesRequest{SurveyID: 42})
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestResubmissionAllowedAfterDelete(t *testing.T) {
	db := setupTestDB(t)
	svc := NewSubmissionService(db)

	survey := createTestSurvey(t, db, "Ride Quality", true)
	driver := createTestDriver(t, db, "Aibek", true)
	question := createTestQuestion(t, db, survey.ID, "Rate", models.QuestionTypeRating, 1)

	req := &CreateResponseRequest{
		SurveyID: survey.ID,
		DriverID: driver.ID,
		Answers:  []AnswerInput{{QuestionID: question.ID, RatingValue: intPtr(2)}},
	}

	_, err := svc.CreateResponse("10.0.0.1", req)
	require.NoError(t, err)

	deleted, err := svc.DeleteResponses(&DeleteResponsesRequest{SurveyID: survey.ID})
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	_, err = svc.CreateResponse("10.0.0.1", req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), countRows(t, db, &models.Response{}))
}
