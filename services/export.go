package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"sponsorship_console/models"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// Table is a titled grid of already formatted cells
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// GradeStudentsTable lays out a grade class roster for export
func GradeStudentsTable(resp models.GradeStudentsResponse) Table {
	t := Table{
		Title:   resp.Grade.Name,
		Headers: []string{"Name", "Email", "Phone", "School", "Grade", "Performance", "Attendance", "Fees Balance", "Status"},
	}
	for _, s := range resp.Students {
		t.Rows = append(t.Rows, []string{
			s.FullName,
			s.Email,
			OrNA(s.PhoneNumber),
			OrNA(s.School),
			OrNA(resp.Grade.Name),
			FormatPercent(s.AcademicPerformance),
			FormatPercent(s.Attendance),
			FormatKES(s.Balance),
			s.SponsorshipStatus,
		})
	}
	return t
}

// StatementsTable lays out fee statements for export
func StatementsTable(statements []models.FeeStatement) Table {
	t := Table{
		Title: "Fee Statements",
		Headers: []string{
			"Student", "Email", "Term", "Year", "School",
			"Total Fees", "Amount Paid", "Balance", "Paid", "Due Date", "Status", "Notes",
		},
	}
	for _, s := range statements {
		paid := s.PaymentPercentage
		t.Rows = append(t.Rows, []string{
			OrNA(s.StudentName),
			OrNA(s.StudentEmail),
			s.Term,
			strconv.Itoa(s.Year),
			OrNA(s.School),
			FormatKES(s.TotalAmount),
			FormatKES(s.AmountPaid),
			FormatKES(s.Balance),
			FormatPercent(&paid),
			OrNA(s.DueDate),
			s.Status,
			s.Notes,
		})
	}
	return t
}

// WriteCSV writes the table as RFC 4180 CSV with a header row
func (t Table) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(t.Headers); err != nil {
		return err
	}
	if err := writer.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteXLSX writes the table as a single-sheet workbook with a bold header
func (t Table) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Title
	if sheet == "" || len(sheet) > 31 {
		sheet = "Export"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, header := range t.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
	}
	for r, row := range t.Rows {
		for c, value := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	if len(t.Headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(t.Headers))
		headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		f.SetCellStyle(sheet, "A1", last+"1", headerStyle)
		f.SetColWidth(sheet, "A", last, 20)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}
	return nil
}

// Write writes the table in format (csv or xlsx)
func (t Table) Write(w io.Writer, format string) error {
	switch format {
	case FormatCSV:
		return t.WriteCSV(w)
	case FormatXLSX:
		return t.WriteXLSX(w)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// GradeStudentsFileName is grade_students_<id>_<YYYY-MM-DD>.csv
func GradeStudentsFileName(gradeID int, now time.Time) string {
	return fmt.Sprintf("grade_students_%d_%s.csv", gradeID, now.Format("2006-01-02"))
}

// StatementsFileName is fee_statements_<YYYY-MM-DD>.<format>
func StatementsFileName(format string, now time.Time) string {
	return fmt.Sprintf("fee_statements_%s.%s", now.Format("2006-01-02"), format)
}

// ContentType returns the MIME type of an export format
func ContentType(format string) string {
	switch format {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// DescribeFilters renders the active search and filters for report headers
func DescribeFilters(q ListQuery, filters []FilterSpec) string {
	var parts []string
	if s := strings.TrimSpace(q.Search); s != "" {
		parts = append(parts, fmt.Sprintf("search %q", s))
	}
	for _, f := range filters {
		if v := q.Filters[f.Field]; v != "" && v != FilterAll {
			parts = append(parts, strings.ToLower(labelOr(f))+" "+v)
		}
	}
	if len(parts) == 0 {
		return "No filters"
	}
	return strings.Join(parts, ", ")
}
