package records

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column aliases, in resolution order. The first header matching any alias
// (case-insensitive) wins for its logical field.
var (
	idAliases        = []string{"CRollNumber", "rollno", "roll_number", "id", "student_id"}
	nameAliases      = []string{"CName", "name", "student_name", "display_name"}
	secondaryAliases = []string{"CNameTelugu", "telugu_name", "secondary_name", "name_te"}
	photoAliases     = []string{"photo", "photo_filename", "image"}
)

// LoadCSV reads recipients from a CSV file. Header columns are resolved via
// the alias lists above; rows with a blank id and name are skipped; a
// duplicate id is an error because the id doubles as file and URL key.
func LoadCSV(path string) ([]Recipient, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening recipients file: %w", err)
	}
	defer f.Close()
	recs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return recs, nil
}

// ReadCSV parses recipients from r. The first row must be a header.
func ReadCSV(r io.Reader) ([]Recipient, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("csv has no header row")
	}

	header := rows[0]
	if len(header) > 0 {
		// Sheets exported on Windows carry a UTF-8 BOM on the first cell.
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	idCol := resolveColumn(header, idAliases)
	nameCol := resolveColumn(header, nameAliases)
	secondaryCol := resolveColumn(header, secondaryAliases)
	photoCol := resolveColumn(header, photoAliases)
	if idCol < 0 || nameCol < 0 {
		return nil, fmt.Errorf("csv header lacks an id or name column (got %v)", header)
	}

	seen := map[string]bool{}
	var out []Recipient
	for _, row := range rows[1:] {
		rec := Recipient{
			ID:            cell(row, idCol),
			DisplayName:   cell(row, nameCol),
			SecondaryName: cell(row, secondaryCol),
			PhotoRef:      cell(row, photoCol),
		}
		if rec.ID == "" && rec.DisplayName == "" {
			continue
		}
		if rec.PhotoRef == "" && rec.ID != "" {
			rec.PhotoRef = rec.ID + ".jpg"
		}
		if rec.ID != "" {
			if seen[rec.ID] {
				return nil, fmt.Errorf("duplicate recipient id %s", rec.ID)
			}
			seen[rec.ID] = true
		}
		out = append(out, rec)
	}
	return out, nil
}

func resolveColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return i
			}
		}
	}
	return -1
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
