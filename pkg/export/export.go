package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jordanlanch/leaddesk/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

const sheetName = "Leads"

// Header is the fixed export column set
var Header = []string{"id", "name", "email", "status", "score", "tags", "source", "last_interaction"}

// Project flattens stored leads into rows, header first. Tags keep their
// stored serialized form.
func Project(records []models.LeadRecord) [][]string {
	rows := make([][]string, 0, len(records)+1)
	rows = append(rows, append([]string(nil), Header...))
	for _, r := range records {
		lastInteraction := ""
		if !r.LastInteraction.IsZero() {
			lastInteraction = r.LastInteraction.UTC().Format(time.RFC3339Nano)
		}
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			r.Name,
			r.Email,
			r.Status,
			strconv.Itoa(r.Score),
			r.Tags,
			r.Source,
			lastInteraction,
		})
	}
	return rows
}

// ContentType returns the MIME type and file name for a format
func ContentType(format string) (string, string, error) {
	switch format {
	case FormatCSV:
		return "text/csv", "leads.csv", nil
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "leads.xlsx", nil
	default:
		return "", "", fmt.Errorf("unsupported export format %q", format)
	}
}

// Write renders records in the given format
func Write(w io.Writer, format string, records []models.LeadRecord) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, records)
	case FormatXLSX:
		return WriteXLSX(w, records)
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteCSV renders the projection as CSV
func WriteCSV(w io.Writer, records []models.LeadRecord) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(Project(records)); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// WriteXLSX renders the projection as a single-sheet workbook
func WriteXLSX(w io.Writer, records []models.LeadRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, row := range Project(records) {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	last, err := excelize.CoordinatesToCellName(len(Header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}
	lastCol := last[:len(last)-1]
	if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
