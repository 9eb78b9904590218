package services

import (
	"fmt"
	"regexp"
	"sponsorship_console/models"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FormMode selects which rules of a schema apply
type FormMode int

const (
	ModeCreate FormMode = iota
	ModeUpdate
	ModeStatus
)

func (m FormMode) String() string {
	switch m {
	case ModeCreate:
		return "create"
	case ModeUpdate:
		return "update"
	case ModeStatus:
		return "status"
	default:
		return "unknown"
	}
}

// FieldKind picks the format check for a field
type FieldKind int

const (
	KindText FieldKind = iota
	KindEmail
	KindPhone
	KindDate
	KindEnum
	KindID
	KindBool
	KindAmount
)

// Field is one input of a form
type Field struct {
	Name       string
	Label      string
	Kind       FieldKind
	Modes      []FormMode // modes that accept the field
	RequiredIn []FormMode
	Allowed    []string // for KindEnum
}

func (f Field) acceptedIn(mode FormMode) bool {
	return containsMode(f.Modes, mode)
}

func (f Field) requiredIn(mode FormMode) bool {
	return containsMode(f.RequiredIn, mode)
}

// FileRule constrains an uploaded file
type FileRule struct {
	Field        string
	Label        string
	MaxBytes     int64
	ContentTypes []string
	Modes        []FormMode
	RequiredIn   []FormMode
	TypeMessage  string
}

// EncodedForm is a validated form ready to send. Status patches travel as
// JSON; everything else is multipart.
type EncodedForm struct {
	Fields map[string]string
	Files  []FilePart
	JSON   map[string]string
}

// Multipart reports whether the form must be sent as multipart
func (e EncodedForm) Multipart() bool {
	return e.JSON == nil
}

// FormSchema is the one description of a form shared by every mode
type FormSchema struct {
	Name     string
	Fields   []Field
	Files    []FileRule
	validate *validator.Validate
}

var phonePattern = regexp.MustCompile(`^\+?[0-9][0-9 \-]{6,18}$`)

// NewFormSchema builds a schema with its validator
func NewFormSchema(name string, fields []Field, files []FileRule) *FormSchema {
	v := validator.New()
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("form schema %s: register phone rule: %v", name, err))
	}
	return &FormSchema{Name: name, Fields: fields, Files: files, validate: v}
}

// Field returns the field called name
func (s *FormSchema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// Validate checks values and files for mode. Missing required fields are
// reported by label in schema order, followed by format problems.
func (s *FormSchema) Validate(mode FormMode, values map[string]string, files []FilePart) error {
	valErr := &ValidationError{}

	for _, f := range s.Fields {
		if !f.acceptedIn(mode) {
			continue
		}
		value := strings.TrimSpace(values[f.Name])
		if value == "" {
			if f.requiredIn(mode) {
				valErr.Missing = append(valErr.Missing, f.Label)
			}
			continue
		}
		if problem := s.checkFormat(f, value); problem != "" {
			valErr.Problems = append(valErr.Problems, problem)
		}
	}

	for _, rule := range s.Files {
		if containsMode(rule.RequiredIn, mode) && !hasFile(files, rule.Field) {
			valErr.Missing = append(valErr.Missing, rule.Label)
		}
	}

	for _, file := range files {
		rule, ok := s.fileRule(file.Field)
		if !ok || !containsMode(rule.Modes, mode) {
			continue
		}
		if rule.MaxBytes > 0 && int64(len(file.Data)) > rule.MaxBytes {
			valErr.addProblem("%s must be less than %dMB", rule.Label, rule.MaxBytes/(1024*1024))
		}
		if len(rule.ContentTypes) > 0 && !containsString(rule.ContentTypes, file.ContentType) {
			valErr.Problems = append(valErr.Problems, rule.TypeMessage)
		}
	}

	if valErr.HasProblems() {
		return valErr
	}
	return nil
}

func (s *FormSchema) checkFormat(f Field, value string) string {
	var tag string
	switch f.Kind {
	case KindEmail:
		tag = "email"
	case KindPhone:
		tag = "phone"
	case KindDate:
		tag = "datetime=" + DateLayout
	case KindID:
		tag = "numeric"
	case KindBool:
		tag = "oneof=true false"
	case KindAmount:
		tag = "numeric"
	case KindEnum:
		tag = "oneof=" + strings.Join(f.Allowed, " ")
	default:
		return ""
	}

	if err := s.validate.Var(value, tag); err != nil {
		switch f.Kind {
		case KindEmail:
			return fmt.Sprintf("%s must be a valid email address", f.Label)
		case KindPhone:
			return fmt.Sprintf("%s must be a valid phone number", f.Label)
		case KindDate:
			return fmt.Sprintf("%s must be a date (YYYY-MM-DD)", f.Label)
		case KindEnum:
			return fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.Allowed, ", "))
		default:
			return fmt.Sprintf("%s is invalid", f.Label)
		}
	}
	if f.Kind == KindAmount {
		if v, ok := ParseAmount(value); !ok || v <= 0 {
			return fmt.Sprintf("%s must be greater than zero", f.Label)
		}
	}
	return ""
}

func hasFile(files []FilePart, field string) bool {
	for _, f := range files {
		if f.Field == field && len(f.Data) > 0 {
			return true
		}
	}
	return false
}

// Encode trims values and drops empty ones. Status mode produces a JSON
// object holding only the status fields.
func (s *FormSchema) Encode(mode FormMode, values map[string]string, files []FilePart) EncodedForm {
	fields := make(map[string]string)
	for _, f := range s.Fields {
		if !f.acceptedIn(mode) {
			continue
		}
		if value := strings.TrimSpace(values[f.Name]); value != "" {
			fields[f.Name] = value
		}
	}

	if mode == ModeStatus {
		return EncodedForm{JSON: fields}
	}

	var parts []FilePart
	for _, file := range files {
		rule, ok := s.fileRule(file.Field)
		if !ok || !containsMode(rule.Modes, mode) || len(file.Data) == 0 {
			continue
		}
		parts = append(parts, file)
	}
	return EncodedForm{Fields: fields, Files: parts}
}

func (s *FormSchema) fileRule(field string) (FileRule, bool) {
	for _, r := range s.Files {
		if r.Field == field {
			return r, true
		}
	}
	return FileRule{}, false
}

func containsMode(modes []FormMode, mode FormMode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// MaxProfileImageBytes caps profile photo uploads
const MaxProfileImageBytes = 5 * 1024 * 1024

var editModes = []FormMode{ModeCreate, ModeUpdate}

func profileField(name, label string, kind FieldKind) Field {
	return Field{Name: name, Label: label, Kind: kind, Modes: editModes}
}

// BeneficiarySchema describes the create, edit and status forms of a beneficiary
var BeneficiarySchema = NewFormSchema("beneficiary",
	[]Field{
		{Name: "first_name", Label: "First name", Modes: editModes, RequiredIn: []FormMode{ModeCreate}},
		{Name: "last_name", Label: "Last name", Modes: editModes, RequiredIn: []FormMode{ModeCreate}},
		{Name: "email", Label: "Email", Kind: KindEmail, Modes: editModes, RequiredIn: []FormMode{ModeCreate}},
		{Name: "phone_number", Label: "Phone number", Kind: KindPhone, Modes: editModes, RequiredIn: []FormMode{ModeCreate}},
		{Name: "school", Label: "School", Modes: editModes, RequiredIn: []FormMode{ModeCreate}},
		profileField("date_of_birth", "Date of birth", KindDate),
		{Name: "gender", Label: "Gender", Kind: KindEnum, Modes: editModes, Allowed: []string{"male", "female", "other"}},
		profileField("national_id", "National ID", KindText),
		profileField("address", "Address", KindText),
		profileField("county", "County", KindText),
		profileField("constituency", "Constituency", KindText),
		profileField("admission_number", "Admission number", KindText),
		{Name: "school_type", Label: "School type", Kind: KindEnum, Modes: editModes, Allowed: []string{"public", "private", "boarding", "day"}},
		profileField("education_level_id", "Education level", KindID),
		profileField("grade_class_id", "Grade", KindID),
		profileField("guardian_name", "Guardian name", KindText),
		profileField("guardian_phone", "Guardian phone", KindPhone),
		profileField("guardian_email", "Guardian email", KindEmail),
		profileField("guardian_relationship", "Guardian relationship", KindText),
		profileField("emergency_contact_name", "Emergency contact name", KindText),
		profileField("emergency_contact_phone", "Emergency contact phone", KindPhone),
		profileField("sponsorship_start_date", "Sponsorship start date", KindDate),
		{Name: "is_verified", Label: "Verified", Kind: KindBool, Modes: []FormMode{ModeUpdate}},
		{
			Name:       "sponsorship_status",
			Label:      "Sponsorship status",
			Kind:       KindEnum,
			Modes:      []FormMode{ModeCreate, ModeUpdate, ModeStatus},
			RequiredIn: []FormMode{ModeStatus},
			Allowed:    models.SponsorshipStatuses,
		},
	},
	[]FileRule{{
		Field:        "profile_image",
		Label:        "Profile image",
		MaxBytes:     MaxProfileImageBytes,
		ContentTypes: []string{"image/jpeg", "image/png", "image/gif"},
		Modes:        editModes,
		TypeMessage:  "Profile image must be JPG, PNG, or GIF",
	}},
)
