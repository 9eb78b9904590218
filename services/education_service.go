package services

import (
	"context"
	"fmt"
	"net/url"
	"sponsorship_console/models"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// LookupCacheTTL is how long education levels and grade classes are reused
const LookupCacheTTL = 5 * time.Minute

const levelsCacheKey = "education_levels"

// EducationService wraps the education level endpoints. The level list
// doubles as the lookup for level and grade pickers and is cached.
type EducationService struct {
	api   *APIClient
	cache *cache.Cache
}

func NewEducationService(api *APIClient) *EducationService {
	return &EducationService{api: api, cache: cache.New(LookupCacheTTL, 2*LookupCacheTTL)}
}

// Levels returns every education level with its grade classes
func (s *EducationService) Levels(ctx context.Context, sess *SessionContext) ([]models.EducationLevel, error) {
	if v, ok := s.cache.Get(levelsCacheKey); ok {
		return cloneLevels(v.([]models.EducationLevel)), nil
	}
	var resp struct {
		EducationLevels []models.EducationLevel `json:"education_levels"`
	}
	if err := s.api.GetJSON(ctx, sess, "/admin/education-levels/", nil, &resp); err != nil {
		return nil, err
	}
	s.cache.SetDefault(levelsCacheKey, cloneLevels(resp.EducationLevels))
	return resp.EducationLevels, nil
}

// cloneLevels copies levels and their grade lists so callers never share
// the cached slices
func cloneLevels(levels []models.EducationLevel) []models.EducationLevel {
	out := make([]models.EducationLevel, len(levels))
	for i, l := range levels {
		l.Grades = append([]models.GradeClass(nil), l.Grades...)
		out[i] = l
	}
	return out
}

// GradesFor returns the grade classes of one level. Selecting a level
// restricts the grade picker to these.
func (s *EducationService) GradesFor(ctx context.Context, sess *SessionContext, levelID int) ([]models.GradeClass, error) {
	levels, err := s.Levels(ctx, sess)
	if err != nil {
		return nil, err
	}
	for _, l := range levels {
		if l.ID == levelID {
			return l.Grades, nil
		}
	}
	return []models.GradeClass{}, nil
}

// InvalidateLookups drops the cached levels after an edit
func (s *EducationService) InvalidateLookups() {
	s.cache.Delete(levelsCacheKey)
}

// Detail fetches one level by key
func (s *EducationService) Detail(ctx context.Context, sess *SessionContext, key string) (models.LevelDetail, error) {
	var resp models.LevelDetail
	err := s.api.GetJSON(ctx, sess, "/admin/education-levels/"+url.PathEscape(key)+"/", nil, &resp)
	return resp, err
}

// Dashboard fetches the education overview
func (s *EducationService) Dashboard(ctx context.Context, sess *SessionContext) (models.EducationDashboard, error) {
	var resp models.EducationDashboard
	err := s.api.GetJSON(ctx, sess, "/admin/education-dashboard/", nil, &resp)
	return resp, err
}

// GradeStudents fetches one page of a grade class's students
func (s *EducationService) GradeStudents(ctx context.Context, sess *SessionContext, gradeID int, q ListQuery) (models.GradeStudentsResponse, error) {
	var resp models.GradeStudentsResponse
	err := s.api.GetJSON(ctx, sess, fmt.Sprintf("/admin/grades/%d/students/", gradeID), q.Values(), &resp)
	return resp, err
}

func (s *EducationService) GradeStudentsFetcher(sess *SessionContext, gradeID int) Fetcher[models.GradeStudent] {
	return s.gradeStudentsFetcher(sess, gradeID, nil)
}

// gradeStudentsFetcher hands every full response to seen before paging it
func (s *EducationService) gradeStudentsFetcher(sess *SessionContext, gradeID int, seen func(ListQuery, models.GradeStudentsResponse)) Fetcher[models.GradeStudent] {
	return func(ctx context.Context, q ListQuery) (models.Page[models.GradeStudent], error) {
		resp, err := s.GradeStudents(ctx, sess, gradeID, q)
		if err != nil {
			return models.Page[models.GradeStudent]{}, err
		}
		if seen != nil {
			seen(q, resp)
		}
		return models.NewPage(resp.Students, resp.Pagination), nil
	}
}

// AllGradeStudents walks every page of a grade class, for exports. The
// grade header comes from the first page.
func (s *EducationService) AllGradeStudents(ctx context.Context, sess *SessionContext, gradeID int, search string) (models.GradeStudentsResponse, error) {
	var out models.GradeStudentsResponse
	fetch := s.gradeStudentsFetcher(sess, gradeID, func(q ListQuery, resp models.GradeStudentsResponse) {
		if q.Page <= 1 {
			out = resp
		}
	})

	students, err := CollectAll(ctx, fetch, ListQuery{Search: search}, nil, nil)
	if err != nil {
		return out, err
	}
	out.Students = students
	return out, nil
}

// UpdateLevel edits a level's presentation fields
func (s *EducationService) UpdateLevel(ctx context.Context, sess *SessionContext, key string, update models.LevelUpdate) error {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return &ValidationError{Missing: []string{"Title"}}
	}
	err := s.api.PostJSON(ctx, sess, "/admin/education-levels/"+url.PathEscape(key)+"/update/", update, nil)
	if err == nil {
		s.InvalidateLookups()
	}
	return err
}

// CreateGrade adds a grade class to a level
func (s *EducationService) CreateGrade(ctx context.Context, sess *SessionContext, grade models.NewGrade) (int, error) {
	grade.Name = strings.TrimSpace(grade.Name)
	grade.ShortCode = strings.TrimSpace(grade.ShortCode)

	valErr := &ValidationError{}
	if grade.EducationLevelID <= 0 {
		valErr.Missing = append(valErr.Missing, "Education level")
	}
	if grade.Name == "" {
		valErr.Missing = append(valErr.Missing, "Name")
	}
	if grade.ShortCode == "" {
		valErr.Missing = append(valErr.Missing, "Short code")
	}
	if valErr.HasProblems() {
		return 0, valErr
	}

	var resp struct {
		GradeID int `json:"grade_id"`
	}
	if err := s.api.PostJSON(ctx, sess, "/admin/grades/create/", grade, &resp); err != nil {
		return 0, err
	}
	s.InvalidateLookups()
	return resp.GradeID, nil
}
