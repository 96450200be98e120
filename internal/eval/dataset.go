// Package eval runs the claim pipeline over a labelled dataset and scores
// the predictions.
package eval

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/claimcheck/internal/model"
)

// RowID accepts both numeric and string ids in the dataset
type RowID string

// UnmarshalJSON decodes a JSON number or string
func (id *RowID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RowID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a number or string: %w", err)
	}
	*id = RowID(n.String())
	return nil
}

// Row is one labelled claim
type Row struct {
	ID            RowID       `json:"id"`
	Claim         string      `json:"claim"`
	ExpectedLabel model.Label `json:"expected_label"`
}

// LoadDataset reads a JSONL dataset file
func LoadDataset(path string) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer func() { _ = file.Close() }()

	rows, err := ReadDataset(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// ReadDataset parses one JSON object per line. Blank lines and lines
// starting with # are skipped; the expected label is normalised to
// True/False.
func ReadDataset(r io.Reader) ([]Row, error) {
	var rows []Row

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var row Row
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if strings.TrimSpace(row.Claim) == "" {
			return nil, fmt.Errorf("line %d: empty claim", lineNo)
		}
		if row.ID == "" {
			row.ID = RowID(fmt.Sprintf("%d", len(rows)+1))
		}
		row.ExpectedLabel = model.ParseLabel(string(row.ExpectedLabel))
		rows = append(rows, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan dataset: %w", err)
	}
	return rows, nil
}
