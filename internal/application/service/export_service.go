package service

import (
	"context"
	"fmt"
	"io"

	"github.com/sangkips/stall-pos/internal/domain/entity"
	"github.com/sangkips/stall-pos/pkg/spreadsheet"
)

// TableWriter materialises report tables as a file.
type TableWriter interface {
	WriteTables(w io.Writer, tables []entity.ReportTable) error
	ContentType() string
	Extension() string
}

// WorkbookWriter writes tables as sheets of an .xlsx workbook.
type WorkbookWriter struct{}

func (WorkbookWriter) WriteTables(w io.Writer, tables []entity.ReportTable) error {
	sheets := make([]spreadsheet.Sheet, len(tables))
	for i, t := range tables {
		sheets[i] = spreadsheet.Sheet{Name: t.Name, Columns: t.Columns, Rows: t.Rows}
	}
	return spreadsheet.Write(w, sheets)
}

func (WorkbookWriter) ContentType() string { return spreadsheet.ContentType }

func (WorkbookWriter) Extension() string { return "xlsx" }

// TableSource produces the close-register tables and the date they cover.
type TableSource interface {
	CloseRegisterTables() ([]entity.ReportTable, string)
}

// ExportService writes the close-register tables. It never touches the ledger;
// clearing today's sales afterwards is a separate, confirmed action.
type ExportService struct {
	source TableSource
	writer TableWriter
}

// NewExportService creates an export service. A nil writer means xlsx.
func NewExportService(source TableSource, writer TableWriter) *ExportService {
	if writer == nil {
		writer = WorkbookWriter{}
	}
	return &ExportService{source: source, writer: writer}
}

// FileName is the download name for the report of date ("2006-01-02").
func (s *ExportService) FileName(date string) string {
	return fmt.Sprintf("close-register-%s.%s", date, s.writer.Extension())
}

// ContentType of the written file.
func (s *ExportService) ContentType() string {
	return s.writer.ContentType()
}

// ExportCloseRegister writes today's tables to w and returns the file name.
func (s *ExportService) ExportCloseRegister(ctx context.Context, w io.Writer) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tables, date := s.source.CloseRegisterTables()
	if err := s.writer.WriteTables(w, tables); err != nil {
		return "", fmt.Errorf("export close register: %w", err)
	}
	return s.FileName(date), nil
}
