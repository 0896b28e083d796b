package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"
)

// AssignmentRow is one validated bulk-assignment CSV row. An empty EndDate
// marks a permanent employee. Row is the human-facing position in the source
// file; zero means the row did not come from a CSV.
type AssignmentRow struct {
	Row          int    `json:"row,omitempty"`
	LockerNumber string `json:"locker_number"`
	EmployeeNIK  string `json:"employee_nik"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// RowError describes a rejected CSV row. Row numbers are human-facing:
// data position plus two, accounting for the header line and zero-based
// indexing.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ParseResult carries the valid rows and the per-row rejections of one
// CSV parse.
type ParseResult struct {
	Rows   []AssignmentRow `json:"rows"`
	Errors []RowError      `json:"errors"`
}

var dateFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var assignmentColumns = []string{"locker_number", "employee_nik", "start_date"}

// ParseAssignmentCSV reads and validates a bulk-assignment CSV. Invalid
// rows are collected as errors without aborting the parse; only a missing
// required column rejects the whole file.
func ParseAssignmentCSV(r io.Reader) (*ParseResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return &ParseResult{Errors: []RowError{{Row: 0, Message: "CSV file is empty"}}}, nil
		}
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}

	var missing []string
	for _, col := range assignmentColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &ParseResult{Errors: []RowError{{
			Row:     0,
			Message: fmt.Sprintf("Missing required columns: %s", strings.Join(missing, ", ")),
		}}}, nil
	}

	result := &ParseResult{}
	for dataIdx := 0; ; dataIdx++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNumber := dataIdx + 2
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: rowNumber, Message: fmt.Sprintf("CSV parsing error: %v", err)})
			continue
		}

		row := AssignmentRow{
			Row:          rowNumber,
			LockerNumber: field(record, index, "locker_number"),
			EmployeeNIK:  field(record, index, "employee_nik"),
			StartDate:    field(record, index, "start_date"),
			EndDate:      field(record, index, "end_date"),
			Notes:        field(record, index, "notes"),
		}

		if msg := validateAssignmentRow(row); msg != "" {
			result.Errors = append(result.Errors, RowError{Row: rowNumber, Message: msg})
			continue
		}
		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

func validateAssignmentRow(row AssignmentRow) string {
	if row.LockerNumber == "" {
		return "locker_number is required"
	}
	if row.EmployeeNIK == "" {
		return "employee_nik is required"
	}
	if row.StartDate == "" {
		return "start_date is required"
	}
	if !dateFormat.MatchString(row.StartDate) {
		return "start_date must be in YYYY-MM-DD format"
	}
	startDate, err := time.Parse(DateLayout, row.StartDate)
	if err != nil {
		return "start_date is not a valid date"
	}
	if row.EndDate != "" {
		if !dateFormat.MatchString(row.EndDate) {
			return "end_date must be in YYYY-MM-DD format"
		}
		endDate, err := time.Parse(DateLayout, row.EndDate)
		if err != nil {
			return "end_date is not a valid date"
		}
		if !startDate.Before(endDate) {
			return "start_date must be before end_date"
		}
	}
	return ""
}

func field(record []string, index map[string]int, name string) string {
	i, ok := index[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
