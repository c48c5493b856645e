package services

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"driverrating/models"

	"gorm.io/gorm"
)

// dashboardQuestionLimit caps how many question columns the pivot table
// carries per survey. Questions beyond the first 8 (by order, id) are not
// represented.
const dashboardQuestionLimit = 8

type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

// DashboardRow is one pivot row: a (survey, driver) pair with its response
// count and one cell per question column, each cell holding the formatted
// answer values recorded for that question.
type DashboardRow struct {
	ID            string     `json:"id"`
	Survey        string     `json:"survey"`
	Driver        string     `json:"driver"`
	ResponseCount int64      `json:"response_count"`
	IPAddress     string     `json:"ip_address"`
	Answers       [][]string `json:"answers"`
}

type DriverStat struct {
	DriverID      uint   `json:"driver_id"`
	Name          string `json:"name"`
	ResponseCount int64  `json:"response_count"`
}

type DateStat struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type SurveyResults struct {
	Survey    *models.Survey `json:"survey"`
	RatingAvg float64        `json:"rating_avg"`
	Drivers   []DriverStat   `json:"drivers"`
	ByDate    []DateStat     `json:"by_date"`
}

type SurveyOverview struct {
	ID          uint     `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	IsActive    bool     `json:"is_active"`
	Questions   []string `json:"questions"`
}

type pairCount struct {
	SurveyID uint
	DriverID uint
	Total    int64
}

// DashboardTable builds the admin pivot: one row per (survey, driver) pair
// with at least one response, after the optional filters.
func (s *ReportService) DashboardTable(surveyID, driverID uint) ([]DashboardRow, error) {
	query := s.db.Model(&models.Response{}).
		Select("survey_id, driver_id, COUNT(*) AS total").
		Group("survey_id, driver_id").
		Order("survey_id, driver_id")
	if surveyID != 0 {
		query = query.Where("survey_id = ?", surveyID)
	}
	if driverID != 0 {
		query = query.Where("driver_id = ?", driverID)
	}

	var counts []pairCount
	if err := query.Scan(&counts).Error; err != nil {
		return nil, err
	}
	rows := []DashboardRow{}
	if len(counts) == 0 {
		return rows, nil
	}

	surveyIDs := make([]uint, 0, len(counts))
	driverIDs := make([]uint, 0, len(counts))
	seenSurveys := make(map[uint]bool)
	seenDrivers := make(map[uint]bool)
	for _, count := range counts {
		if !seenSurveys[count.SurveyID] {
			seenSurveys[count.SurveyID] = true
			surveyIDs = append(surveyIDs, count.SurveyID)
		}
		if !seenDrivers[count.DriverID] {
			seenDrivers[count.DriverID] = true
			driverIDs = append(driverIDs, count.DriverID)
		}
	}

	var surveys []models.Survey
	if err := s.db.Where("id IN ?", surveyIDs).Find(&surveys).Error; err != nil {
		return nil, err
	}
	surveyTitles := make(map[uint]string, len(surveys))
	for _, survey := range surveys {
		surveyTitles[survey.ID] = survey.Title
	}

	var drivers []models.Driver
	if err := s.db.Where("id IN ?", driverIDs).Find(&drivers).Error; err != nil {
		return nil, err
	}
	driverNames := make(map[uint]string, len(drivers))
	for i := range drivers {
		driverNames[drivers[i].ID] = drivers[i].DisplayName()
	}

	// First 8 questions per survey, in (order, id) order, define the columns.
	var questions []models.Question
	if err := s.db.Where("survey_id IN ?", surveyIDs).
		Order(`questions."order", questions.id`).
		Find(&questions).Error; err != nil {
		return nil, err
	}
	columnIndex := make(map[uint]map[uint]int)
	var questionIDs []uint
	for _, question := range questions {
		index, ok := columnIndex[question.SurveyID]
		if !ok {
			index = make(map[uint]int)
			columnIndex[question.SurveyID] = index
		}
		if len(index) >= dashboardQuestionLimit {
			continue
		}
		index[question.ID] = len(index)
		questionIDs = append(questionIDs, question.ID)
	}

	// Preallocated so the row pointers below stay valid across appends.
	rows = make([]DashboardRow, 0, len(counts))
	rowMap := make(map[[2]uint]*DashboardRow, len(counts))
	for _, count := range counts {
		cells := make([][]string, dashboardQuestionLimit)
		for i := range cells {
			cells[i] = []string{}
		}
		rows = append(rows, DashboardRow{
			ID:            fmt.Sprintf("%d-%d", count.SurveyID, count.DriverID),
			Survey:        surveyTitles[count.SurveyID],
			Driver:        driverNames[count.DriverID],
			ResponseCount: count.Total,
			Answers:       cells,
		})
		rowMap[[2]uint{count.SurveyID, count.DriverID}] = &rows[len(rows)-1]
	}

	if len(questionIDs) > 0 {
		var answers []models.Answer
		if err := s.db.Preload("AnswerChoices.Choice").
			Preload("Response").
			Joins("JOIN responses ON responses.id = answers.response_id").
			Where("responses.survey_id IN ?", surveyIDs).
			Where("responses.driver_id IN ?", driverIDs).
			Where("answers.question_id IN ?", questionIDs).
			Find(&answers).Error; err != nil {
			return nil, err
		}

		for i := range answers {
			answer := &answers[i]
			key := [2]uint{answer.Response.SurveyID, answer.Response.DriverID}
			row, ok := rowMap[key]
			if !ok {
				continue
			}
			if row.IPAddress == "" {
				row.IPAddress = answer.Response.IPAddress
			}
			idx, ok := columnIndex[answer.Response.SurveyID][answer.QuestionID]
			if !ok {
				continue
			}
			if value := formatAnswerValue(answer); value != "" {
				row.Answers[idx] = append(row.Answers[idx], value)
			}
		}
	}

	return rows, nil
}

// SurveyResults aggregates one survey: average rating over rating-type
// questions, per-driver response counts ordered by driver name, and
// response counts per submission date in chronological order.
func (s *ReportService) SurveyResults(surveyID uint) (*SurveyResults, error) {
	var survey models.Survey
	if err := s.db.First(&survey, surveyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var avg sql.NullFloat64
	if err := s.db.Model(&models.Answer{}).
		Joins("JOIN questions ON questions.id = answers.question_id").
		Where("questions.survey_id = ? AND questions.question_type = ?", surveyID, models.QuestionTypeRating).
		Select("AVG(answers.rating_value)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}

	drivers := []DriverStat{}
	if err := s.db.Model(&models.Response{}).
		Joins("JOIN drivers ON drivers.id = responses.driver_id").
		Where("responses.survey_id = ?", surveyID).
		Select("drivers.id AS driver_id, drivers.name AS name, COUNT(responses.id) AS response_count").
		Group("drivers.id, drivers.name").
		Order("drivers.name").
		Scan(&drivers).Error; err != nil {
		return nil, err
	}

	byDate, err := s.responsesByDate(surveyID)
	if err != nil {
		return nil, err
	}

	results := &SurveyResults{
		Survey:  &survey,
		Drivers: drivers,
		ByDate:  byDate,
	}
	if avg.Valid {
		results.RatingAvg = avg.Float64
	}
	return results, nil
}

// SurveysOverview lists every survey with the texts of its first 8
// questions, for the admin sidebar.
func (s *ReportService) SurveysOverview() ([]SurveyOverview, error) {
	var surveys []models.Survey
	if err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`questions."order", questions.id`)
		}).
		Order("created_at DESC").
		Find(&surveys).Error; err != nil {
		return nil, err
	}

	overviews := make([]SurveyOverview, 0, len(surveys))
	for _, survey := range surveys {
		texts := []string{}
		for _, question := range survey.Questions {
			if len(texts) >= dashboardQuestionLimit {
				break
			}
			texts = append(texts, question.Text)
		}
		overviews = append(overviews, SurveyOverview{
			ID:          survey.ID,
			Title:       survey.Title,
			Slug:        survey.Slug,
			Description: survey.Description,
			IsActive:    survey.IsActive,
			Questions:   texts,
		})
	}
	return overviews, nil
}

// responsesByDate groups submission timestamps by calendar day in Go
// rather than in SQL, so the grouping behaves identically on Postgres and
// the in-memory SQLite used by the tests.
func (s *ReportService) responsesByDate(surveyID uint) ([]DateStat, error) {
	var responses []models.Response
	if err := s.db.Where("survey_id = ?", surveyID).Find(&responses).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64)
	for _, response := range responses {
		counts[response.SubmittedAt.Format("2006-01-02")]++
	}

	days := make([]string, 0, len(counts))
	for day := range counts {
		days = append(days, day)
	}
	sort.Strings(days)

	stats := make([]DateStat, 0, len(days))
	for _, day := range days {
		stats = append(stats, DateStat{Day: day, Count: counts[day]})
	}
	return stats, nil
}

// formatAnswerValue renders one answer for a pivot cell: the rating digit
// when a rating was given, else the comma-joined selected choice texts,
// else the free-text value, else empty.
func formatAnswerValue(answer *models.Answer) string {
	if answer.RatingValue != nil {
		return strconv.Itoa(*answer.RatingValue)
	}
	if len(answer.AnswerChoices) > 0 {
		texts := make([]string, 0, len(answer.AnswerChoices))
		for _, answerChoice := range answer.AnswerChoices {
			texts = append(texts, answerChoice.Choice.Text)
		}
		return strings.Join(texts, ", ")
	}
	return answer.TextValue
}
