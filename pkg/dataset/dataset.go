// Package dataset loads the CSV listing files that seed agent prompts.
package dataset

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

type Dataset struct {
	Header []string
	Rows   [][]string
}

// Load reads a CSV listing file. The first row is treated as the header.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	return &Dataset{Header: records[0], Rows: records[1:]}, nil
}

// Sample returns up to n rows. A non-zero seed makes the selection
// reproducible.
func (d *Dataset) Sample(n int, seed int64) [][]string {
	if n >= len(d.Rows) {
		out := make([][]string, len(d.Rows))
		copy(out, d.Rows)
		return out
	}

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(len(d.Rows))[:n]
	out := make([][]string, 0, n)
	for _, i := range picked {
		out = append(out, d.Rows[i])
	}
	return out
}

// Render formats rows as compact "key=value" lines for prompt context.
func (d *Dataset) Render(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		pairs := make([]string, 0, len(row))
		for i, v := range row {
			if i < len(d.Header) && v != "" {
				pairs = append(pairs, d.Header[i]+"="+v)
			}
		}
		b.WriteString(strings.Join(pairs, ", "))
		b.WriteString("\n")
	}
	return b.String()
}
