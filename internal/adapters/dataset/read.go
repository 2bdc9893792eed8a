package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals // constant byte sequence

// nullTokens are cells read as missing.
var nullTokens = []string{"", "NA", "NaN", "nan", "<nil>"} //nolint:gochecknoglobals // constant token set

// readCSV reads path into a frame whose columns are all strings. Short rows
// are padded with nulls; long rows lose the cells past the header and are
// counted in truncated. A header-only file yields a zero-row frame.
func readCSV(path string) (df dataframe.DataFrame, truncated int, err error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, 0, fmt.Errorf("%w: %s: %v", ErrOpenFile, path, err)
	}
	return parseCSV(path, b)
}

func parseCSV(path string, b []byte) (dataframe.DataFrame, int, error) {
	b = bytes.TrimPrefix(b, utf8BOM)
	r := csv.NewReader(bytes.NewReader(b))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	headers, err := r.Read()
	if errors.Is(err, io.EOF) {
		return dataframe.DataFrame{}, 0, fmt.Errorf("%w: %s: no header row", ErrParseTable, path)
	}
	if err != nil {
		return dataframe.DataFrame{}, 0, fmt.Errorf("%w: %s: %v", ErrParseTable, path, err)
	}

	records := [][]string{headers}
	truncated := 0
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return dataframe.DataFrame{}, 0, fmt.Errorf("%w: %s: %v", ErrParseTable, path, err)
		}
		if len(rec) > len(headers) {
			truncated++
		}
		row := make([]string, len(headers))
		copy(row, rec)
		records = append(records, row)
	}

	var df dataframe.DataFrame
	if len(records) == 1 {
		cols := make([]series.Series, len(headers))
		for i, h := range headers {
			cols[i] = series.New([]string{}, series.String, h)
		}
		df = dataframe.New(cols...)
	} else {
		df = dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
			dataframe.NaNValues(nullTokens),
		)
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, 0, fmt.Errorf("%w: %s: %v", ErrParseTable, path, df.Err)
	}
	return df, truncated, nil
}
