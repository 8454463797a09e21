package adapters

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/service"
)

const excelSheet = "Sheet1"

// ExcelExporter writes the tabular report as an xlsx workbook
type ExcelExporter struct {
	dir         string
	headerColor string
	logger      *slog.Logger
}

// NewExcelExporter creates an exporter storing workbooks under dir.
// headerColor is an RGB hex value used to fill the header row.
func NewExcelExporter(dir, headerColor string, logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ExcelExporter{dir: dir, headerColor: headerColor, logger: logger}
}

// Export writes Suivi_Excel_<month>_<year>.xlsx and returns its path
func (e *ExcelExporter) Export(rows []service.TabularRow, now time.Time) (string, error) {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return "", domain.WrapError(domain.ErrCodeStorageWrite, "cannot create reports directory "+e.dir, err)
	}
	path := filepath.Join(e.dir, service.ReportFileName(ExcelReportPrefix, ".xlsx", now))

	f := excelize.NewFile()
	defer f.Close()

	for col, header := range service.TabularHeaders {
		if err := setCell(f, col+1, 1, header); err != nil {
			return "", err
		}
	}
	if err := e.styleHeader(f); err != nil {
		return "", err
	}

	for i, row := range rows {
		for col, value := range row {
			if value == nil {
				continue
			}
			if err := setCell(f, col+1, i+2, value); err != nil {
				return "", err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return "", domain.WrapError(domain.ErrCodeStorageWrite, "cannot write workbook "+path, err)
	}

	e.logger.Debug("workbook written", "path", path, "rows", len(rows))
	return path, nil
}

func (e *ExcelExporter) styleHeader(f *excelize.File) error {
	style := &excelize.Style{Font: &excelize.Font{Bold: true}}
	if e.headerColor != "" {
		style.Fill = excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"#" + strings.TrimPrefix(e.headerColor, "#")},
		}
	}
	id, err := f.NewStyle(style)
	if err != nil {
		return domain.WrapError(domain.ErrCodeValidation, "invalid report cell color "+e.headerColor, err)
	}
	last, err := excelize.CoordinatesToCellName(len(service.TabularHeaders), 1)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorageWrite, "cannot style header", err)
	}
	if err := f.SetCellStyle(excelSheet, "A1", last, id); err != nil {
		return domain.WrapError(domain.ErrCodeStorageWrite, "cannot style header", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return domain.WrapError(domain.ErrCodeStorageWrite, "cannot address cell", err)
	}
	if err := f.SetCellValue(excelSheet, cell, value); err != nil {
		return domain.WrapError(domain.ErrCodeStorageWrite, "cannot write cell "+cell, err)
	}
	return nil
}
