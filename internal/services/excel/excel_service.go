package excel

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/arent-kient/api-key-dashboard/internal/keycodec"
	"github.com/arent-kient/api-key-dashboard/internal/models"
)

// SheetName is the worksheet holding the exported keys
const SheetName = "API Keys"

// ContentType is the MIME type of the exported workbook
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var columns = []struct {
	title string
	width float64
}{
	{"Name", 25},
	{"Type", 10},
	{"Key", 42},
	{"Usage", 10},
	{"Monthly Limit", 15},
	{"Created At", 22},
	{"Last Used", 22},
}

// Service builds Excel exports of the key list
type Service struct{}

// NewExcelService creates a new Excel service instance
func NewExcelService() *Service {
	return &Service{}
}

// Filename returns the download name for an export taken at t
func Filename(t time.Time) string {
	return fmt.Sprintf("api_keys_%s.xlsx", t.UTC().Format("20060102_150405"))
}

// ExportAPIKeys writes keys as an xlsx workbook to w. Key values are masked.
func (s *Service) ExportAPIKeys(keys []models.APIKey, w io.Writer) error {
	f, err := s.buildWorkbook(keys)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return nil
}

func (s *Service) buildWorkbook(keys []models.APIKey) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}
	f.SetActiveSheet(0)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"D9E1F2"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	// Production keys are highlighted
	prodStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"FCE4D6"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create row style: %w", err)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	for i, col := range columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(SheetName, name+"1", col.title)
		f.SetColWidth(SheetName, name, name, col.width)
	}
	f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle)
	f.SetPanes(SheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i, key := range keys {
		row := i + 2
		limit := "Unlimited"
		if key.MonthlyLimit != nil {
			limit = strconv.Itoa(*key.MonthlyLimit)
		}
		values := []interface{}{
			key.Name,
			key.Type,
			keycodec.Mask(key.Key),
			key.Usage,
			limit,
			key.CreatedAt.UTC().Format(time.RFC3339),
			key.LastUsed.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if key.Type == models.KeyTypeProd {
			f.SetCellStyle(SheetName, cell, fmt.Sprintf("%s%d", lastCol, row), prodStyle)
		}
	}

	if len(keys) == 0 {
		f.SetCellValue(SheetName, "A2", "no API keys found")
	}
	return f, nil
}
