// Package extract decodes uploaded CSV and XLSX payloads into ordered raw
// rows keyed by the file's own column headers.
package extract

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// MediaTypeCSV is the only media type decoded through the CSV tokenizer.
const MediaTypeCSV = "text/csv"

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// Cell pairs a file column header with the raw value of one row.
type Cell struct {
	Header string
	Value  string
}

// RawRow is one data row in original column order. It is consumed exactly
// once by the header mapper and never outlives the import call.
type RawRow []Cell

// Rows decodes the uploaded payload into data rows. The first file row is
// always treated as the header row. Rows without a single non-empty trimmed
// cell are dropped before they are counted or numbered.
//
// Media types other than CSV and spreadsheets yield an empty sequence with
// no error. Callers relying on a hard failure for unknown types must check
// the media type themselves; this mirrors the upload contract where an
// unrecognized format simply contributes zero rows.
func Rows(payload []byte, mediaType, fileName string) ([]RawRow, error) {
	switch {
	case mediaType == MediaTypeCSV:
		return csvRows(payload)
	case strings.Contains(mediaType, "spreadsheet") || strings.HasSuffix(strings.ToLower(fileName), ".xlsx"):
		return excelRows(payload)
	default:
		return nil, nil
	}
}

func csvRows(payload []byte) ([]RawRow, error) {
	reader := bufio.NewReader(bytes.NewReader(payload))
	if prefix, err := reader.Peek(len(byteOrderMark)); err == nil && bytes.Equal(prefix, byteOrderMark) {
		_, _ = reader.Discard(len(byteOrderMark))
	}

	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return buildRows(records)
}

func excelRows(payload []byte) ([]RawRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("excel file has no sheets")
	}

	// Only the first sheet is imported.
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from xlsx: %w", err)
	}

	return buildRows(records)
}

func buildRows(records [][]string) ([]RawRow, error) {
	if len(records) == 0 {
		return nil, nil
	}

	headers := records[0]
	rows := make([]RawRow, 0, len(records)-1)

	for _, record := range records[1:] {
		if isEmptyRow(record) {
			continue
		}

		row := make(RawRow, len(headers))
		for i, header := range headers {
			value := ""
			if i < len(record) {
				value = record[i]
			}
			row[i] = Cell{Header: header, Value: value}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// isEmptyRow reports whether every cell is empty after trimming. Numeric and
// boolean spreadsheet cells arrive as their string rendering ("0", "FALSE"),
// so they count as data regardless of value.
func isEmptyRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
