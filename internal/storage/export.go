package storage

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
)

type ExportData struct {
	Run     *RunMetadata `json:"run"`
	Columns []string     `json:"columns"`
	Rows    [][]float64  `json:"rows"`
}

func ExportJSON(w io.Writer, meta *RunMetadata, t *Table) error {
	data := ExportData{Run: meta, Columns: t.Columns, Rows: t.Rows}
	if data.Rows == nil {
		data.Rows = [][]float64{}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// WriteCSV writes the header row followed by the values at full precision.
func WriteCSV(w io.Writer, t *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, val := range row {
			rec[i] = strconv.FormatFloat(val, 'g', -1, 64)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
