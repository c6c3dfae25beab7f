package utils

import (
	"bytes"
	"encoding/csv"
)

// utf8BOM makes Excel detect the encoding when the file is opened directly.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// BuildCSV renders a header row plus data rows as UTF-8 CSV with a BOM.
// Quoting and escaping follow encoding/csv (RFC 4180).
func BuildCSV(headers []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
