package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"go-safetyboard/normalize"
	"go-safetyboard/types"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// dateColumn holds spreadsheet serials; its raw cell text is converted to a number.
const dateColumn = "사고일시"

// Row is one raw record keyed by column header.
type Row map[string]any

// ReadFile reads raw records from an .xlsx or .json export.
func ReadFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(f)
	case ".json":
		return ReadJSON(f)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// ReadXLSX reads the first sheet of a workbook. The first row is the header.
// Cells are read raw so dates arrive as serial day numbers.
func ReadXLSX(r io.Reader) ([]Row, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := wb.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return []Row{}, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	out := make([]Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := Row{}
		for i, cell := range cells {
			if i >= len(headers) || headers[i] == "" || strings.TrimSpace(cell) == "" {
				continue
			}
			row[headers[i]] = cellValue(headers[i], cell)
		}
		if len(row) == 0 {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func cellValue(header, cell string) any {
	if header == dateColumn {
		if f, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			return f
		}
	}
	return cell
}

// ReadJSON reads a JSON array of objects.
func ReadJSON(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode json records: %w", err)
	}
	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

// Incidents normalizes raw export rows.
func Incidents(rows []Row) []types.Incident {
	out := make([]types.Incident, 0, len(rows))
	for _, r := range rows {
		out = append(out, normalize.FromSpreadsheetRow(r))
	}
	return out
}
