package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SShoshia/book-giveaway/models"
	"github.com/tealeg/xlsx"
)

var importColumns = []string{"title", "author", "genre", "condition", "location"}

// importRow is one data row of an import file with its 1-based line number
type importRow struct {
	line   int
	fields []string
}

// ImportCSV lists every row of r as a book owned by ownerID.
// The first row must name the columns title, author, genre, condition and
// location in any order. Either all rows are stored or none.
func (s *CatalogService) ImportCSV(ctx context.Context, ownerID uint, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return 0, invalid("file", "file is empty")
	}
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}

	var rows []importRow
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv line %d: %w", line, err)
		}
		rows = append(rows, importRow{line: line, fields: record})
	}
	return s.importRows(ctx, ownerID, header, rows)
}

// ImportXLSX does the same as ImportCSV for the first sheet of an Excel workbook.
// Blank rows are skipped.
func (s *CatalogService) ImportXLSX(ctx context.Context, ownerID uint, data []byte) (int, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return 0, fmt.Errorf("open xlsx: %w", err)
	}
	if len(file.Sheets) == 0 {
		return 0, invalid("file", "workbook has no sheets")
	}

	var header []string
	var rows []importRow
	for i, row := range file.Sheets[0].Rows {
		if row == nil {
			continue
		}
		fields := make([]string, 0, len(row.Cells))
		blank := true
		for _, cell := range row.Cells {
			value := strings.TrimSpace(cell.String())
			if value != "" {
				blank = false
			}
			fields = append(fields, value)
		}
		if blank {
			continue
		}
		if header == nil {
			header = fields
			continue
		}
		rows = append(rows, importRow{line: i + 1, fields: fields})
	}
	if header == nil {
		return 0, invalid("file", "file is empty")
	}
	return s.importRows(ctx, ownerID, header, rows)
}

func (s *CatalogService) importRows(ctx context.Context, ownerID uint, header []string, rows []importRow) (int, error) {
	index := map[string]int{}
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, col := range importColumns {
		if _, ok := index[col]; !ok {
			return 0, invalid("file", fmt.Sprintf("missing column %q", col))
		}
	}

	column := func(fields []string, name string) string {
		if i := index[name]; i < len(fields) {
			return fields[i]
		}
		return ""
	}

	books := make([]models.Book, 0, len(rows))
	for _, row := range rows {
		fields := BookFields{
			Title:     column(row.fields, "title"),
			Author:    column(row.fields, "author"),
			Genre:     column(row.fields, "genre"),
			Condition: column(row.fields, "condition"),
			Location:  column(row.fields, "location"),
		}.normalized()
		if err := fields.Validate(); err != nil {
			return 0, fmt.Errorf("line %d: %w", row.line, err)
		}
		books = append(books, models.Book{
			Title:     fields.Title,
			Author:    fields.Author,
			Genre:     fields.Genre,
			Condition: fields.Condition,
			Location:  fields.Location,
			OwnerID:   ownerID,
		})
	}
	if len(books) == 0 {
		return 0, nil
	}

	if err := s.db.WithContext(ctx).Omit("Owner").Create(&books).Error; err != nil {
		return 0, err
	}
	return len(books), nil
}
