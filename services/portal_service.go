package services

import (
	"context"
	"fmt"
	"net/url"
	"sponsorship_console/models"
	"strings"
)

// PortalService covers the beneficiary's academics and profile pages
type PortalService struct {
	api *APIClient
}

func NewPortalService(api *APIClient) *PortalService {
	return &PortalService{api: api}
}

// AcademicSummary loads the current term, grades and history
func (s *PortalService) AcademicSummary(ctx context.Context, sess *SessionContext) (models.AcademicSummary, error) {
	var resp models.AcademicSummary
	err := s.api.GetJSON(ctx, sess, "/academics/summary/", nil, &resp)
	return resp, err
}

// GradeGuide loads the grading bands
func (s *PortalService) GradeGuide(ctx context.Context, sess *SessionContext) ([]models.GradeBand, error) {
	var resp struct {
		GradeGuide []models.GradeBand `json:"grade_guide"`
	}
	err := s.api.GetJSON(ctx, sess, "/academics/grade-guide/", nil, &resp)
	return resp.GradeGuide, err
}

// SubjectHistory loads every term's marks for one subject
func (s *PortalService) SubjectHistory(ctx context.Context, sess *SessionContext, subject string) (models.SubjectHistory, error) {
	var resp models.SubjectHistory
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return resp, &ValidationError{Missing: []string{"Subject"}}
	}
	err := s.api.GetJSON(ctx, sess, "/academics/subject/"+url.PathEscape(subject)+"/history/", nil, &resp)
	return resp, err
}

// DownloadReportCard fetches the report card of one term summary
func (s *PortalService) DownloadReportCard(ctx context.Context, sess *SessionContext, summaryID int) (*Download, error) {
	return s.api.Download(ctx, sess, fmt.Sprintf("/academics/report-card/%d/download/", summaryID))
}

// Profile loads the beneficiary's own profile
func (s *PortalService) Profile(ctx context.Context, sess *SessionContext) (models.Profile, error) {
	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	err := s.api.GetJSON(ctx, sess, "/get_user_profile/", nil, &resp)
	if resp.Profile.FullName == "" {
		resp.Profile.FullName = sess.Identity().DisplayName()
	}
	return resp.Profile, err
}

// UpdateProfile saves the fields that were set. Values are trimmed and
// format-checked first.
func (s *PortalService) UpdateProfile(ctx context.Context, sess *SessionContext, update models.ProfileUpdate) error {
	valErr := &ValidationError{}
	for _, f := range []struct {
		value *string
		label string
		kind  FieldKind
	}{
		{update.FullName, "Full name", KindText},
		{update.PhoneNumber, "Phone number", KindPhone},
		{update.DateOfBirth, "Date of birth", KindDate},
		{update.Gender, "Gender", KindEnum},
		{update.Address, "Address", KindText},
		{update.County, "County", KindText},
		{update.School, "School", KindText},
		{update.GuardianName, "Guardian name", KindText},
		{update.GuardianPhone, "Guardian phone", KindPhone},
		{update.GuardianEmail, "Guardian email", KindEmail},
		{update.EmergencyContactName, "Emergency contact name", KindText},
		{update.EmergencyContactPhone, "Emergency contact phone", KindPhone},
	} {
		if f.value == nil {
			continue
		}
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			continue
		}
		if problem := profileProblem(f.label, f.kind, *f.value); problem != "" {
			valErr.Problems = append(valErr.Problems, problem)
		}
	}
	if update.FullName != nil && *update.FullName == "" {
		valErr.Missing = append(valErr.Missing, "Full name")
	}
	if valErr.HasProblems() {
		return valErr
	}
	return s.api.PostJSON(ctx, sess, "/update_profile/", update, nil)
}

func profileProblem(label string, kind FieldKind, value string) string {
	field := Field{Name: label, Label: label, Kind: kind}
	if kind == KindEnum {
		gender, _ := BeneficiarySchema.Field("gender")
		field.Allowed = gender.Allowed
	}
	return BeneficiarySchema.checkFormat(field, value)
}
