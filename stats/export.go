package stats

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

// ExportHeader is the column layout shared by CSV and XLSX exports.
var ExportHeader = []string{"survey", "slug", "timestamp", "rating"}

// SurveyRef names the survey an export belongs to.
type SurveyRef struct {
	Name string
	Slug string
}

// WriteCSV writes one row per entry under ExportHeader. Rows are separated
// by "\n" with no terminator after the last row.
func WriteCSV(w io.Writer, survey SurveyRef, entries []Entry) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, e := range entries {
		row := []string{survey.Name, survey.Slug, e.CreatedAt, strconv.Itoa(e.Rating)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

const xlsxSheet = "Responses"

// WriteXLSX writes the same rows as WriteCSV into a single-sheet workbook.
func WriteXLSX(w io.Writer, survey SurveyRef, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]interface{}, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{survey.Name, survey.Slug, e.CreatedAt, e.Rating}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// Export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ContentType returns the MIME type for an export format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// WriteExport dispatches on format; unknown formats fall back to CSV.
func WriteExport(w io.Writer, format string, survey SurveyRef, entries []Entry) error {
	if format == FormatXLSX {
		return WriteXLSX(w, survey, entries)
	}
	return WriteCSV(w, survey, entries)
}
