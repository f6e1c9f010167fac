package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/SAP-F-2025/study-assistant/internal/models"
	"github.com/SAP-F-2025/study-assistant/internal/repositories"
	"github.com/xuri/excelize/v2"
)

const (
	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeCSV  = "text/csv"

	attemptsSheet = "Attempts"
	answersSheet  = "Answers"
	timeLayout    = "2006-01-02 15:04:05"
)

var attemptHeaders = []string{
	"Attempt", "Submitted At", "Document", "Score", "Total", "Percentage", "Band",
}

var answerHeaders = []string{
	"Attempt", "Question ID", "Question", "Selected Option", "Selected Answer", "Correct Option", "Correct",
}

type ExportService interface {
	ExportAttempts(ctx context.Context, id string, format string) (*ExportFile, error)
}

type exportService struct {
	store    *sessionStore
	attempts repositories.AttemptRepository
	logger   *ServiceLogger
}

func NewExportService(deps Dependencies) ExportService {
	return &exportService{
		store:    deps.store(),
		attempts: deps.Attempts,
		logger:   NewServiceLogger(deps.Logger, LogConfig{Service: "study-assistant", Component: "export"}),
	}
}

// ExportAttempts renders the session's submitted quiz attempts as a workbook
// (one sheet of scores, one of per-question answers) or as CSV.
func (s *exportService) ExportAttempts(ctx context.Context, id string, format string) (file *ExportFile, err error) {
	op := s.logger.WithOperation(ctx, "export_attempts", id)
	defer func() { op.LogResult(err) }()

	if format == "" {
		format = ExportFormatXLSX
	}
	if format != ExportFormatXLSX && format != ExportFormatCSV {
		return nil, ValidationErrors{*NewValidationError("format", "must be one of: xlsx csv", format)}
	}

	if _, err = s.store.get(ctx, id); err != nil {
		return nil, err
	}

	attempts, err := s.attempts.ListBySession(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", err)
	}
	if len(attempts) == 0 {
		return nil, ErrNoAttempts
	}

	baseName := "quiz-attempts-" + shortID(id)
	if format == ExportFormatCSV {
		data, err := attemptsToCSV(attempts)
		if err != nil {
			return nil, err
		}
		return &ExportFile{FileName: baseName + ".csv", ContentType: contentTypeCSV, Data: data}, nil
	}

	data, err := attemptsToExcel(attempts)
	if err != nil {
		return nil, err
	}
	return &ExportFile{FileName: baseName + ".xlsx", ContentType: contentTypeXLSX, Data: data}, nil
}

func attemptsToExcel(attempts []*models.QuizAttempt) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// The default sheet is renamed rather than left empty
	if err := f.SetSheetName(f.GetSheetName(0), attemptsSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	if _, err := f.NewSheet(answersSheet); err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}

	if err := writeRow(f, attemptsSheet, 1, toRow(attemptHeaders)); err != nil {
		return nil, err
	}
	if err := writeRow(f, answersSheet, 1, toRow(answerHeaders)); err != nil {
		return nil, err
	}

	answerRow := 2
	for i, attempt := range attempts {
		if err := writeRow(f, attemptsSheet, i+2, attemptRow(attempt)); err != nil {
			return nil, err
		}

		answers, err := decodeAnswers(attempt)
		if err != nil {
			return nil, err
		}
		for _, answer := range answers {
			row := []interface{}{
				attempt.AttemptNumber,
				answer.QuestionID,
				answer.Question,
				answer.Selected + 1,
				answer.SelectedText,
				answer.CorrectAnswer + 1,
				yesNo(answer.IsCorrect),
			}
			if err := writeRow(f, answersSheet, answerRow, row); err != nil {
				return nil, err
			}
			answerRow++
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}

func attemptsToCSV(attempts []*models.QuizAttempt) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(attemptHeaders); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, attempt := range attempts {
		row := attemptRow(attempt)
		record := make([]string, len(row))
		for i, value := range row {
			record[i] = fmt.Sprint(value)
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func attemptRow(attempt *models.QuizAttempt) []interface{} {
	return []interface{}{
		attempt.AttemptNumber,
		attempt.SubmittedAt.Format(timeLayout),
		attempt.DocumentName,
		attempt.Score,
		attempt.Total,
		strconv.FormatFloat(attempt.Percentage, 'f', 1, 64),
		string(attempt.Band),
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func decodeAnswers(attempt *models.QuizAttempt) ([]models.AttemptAnswer, error) {
	if len(attempt.Answers) == 0 {
		return nil, nil
	}
	var answers []models.AttemptAnswer
	if err := json.Unmarshal(attempt.Answers, &answers); err != nil {
		return nil, fmt.Errorf("failed to decode answers of attempt %d: %w", attempt.AttemptNumber, err)
	}
	return answers, nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func shortID(id string) string {
	id = strings.ReplaceAll(id, "-", "")
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
