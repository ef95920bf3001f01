package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"gallery-inspector/internal/logging"
	"gallery-inspector/internal/table"
)

// Workbook writes the three category tables to an xlsx file at path.
// Sheets are created even for empty tables so consumers can rely on
// their presence.
func Workbook(path string, images, videos, others table.Table) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logging.Warn("failed to close workbook: %v", err)
		}
	}()

	sheets := []struct {
		name string
		tbl  table.Table
	}{
		{"images", images},
		{"videos", videos},
		{"others", others},
	}

	for _, s := range sheets {
		if err := writeSheet(f, s.name, s.tbl); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.SaveAs(path)
}

func writeSheet(f *excelize.File, name string, tbl table.Table) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	for col, title := range tbl.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, title); err != nil {
			return err
		}
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(tbl.Columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(name, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	widths := make([]int, len(tbl.Columns))
	for i, title := range tbl.Columns {
		widths[i] = len(title)
	}

	for rowIdx, row := range tbl.Rows {
		for col, value := range row {
			if value == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, value); err != nil {
				return err
			}
			if w := cellWidth(value); w > widths[col] {
				widths[col] = w
			}
		}
	}

	for col := range tbl.Columns {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		width := float64(widths[col]) + 2
		if width > 80 {
			width = 80
		}
		if err := f.SetColWidth(name, colName, colName, width); err != nil {
			return err
		}
	}

	if err := f.AutoFilter(name, fmt.Sprintf("A1:%s", lastHeader), []excelize.AutoFilterOptions{}); err != nil {
		return err
	}
	return f.SetPanes(name, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

// cellWidth estimates the rendered width of a value for column sizing.
func cellWidth(value interface{}) int {
	switch v := value.(type) {
	case string:
		return len(v)
	case time.Time:
		return len("2006-01-02")
	default:
		return len(fmt.Sprint(v))
	}
}
