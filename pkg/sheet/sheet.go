// Package sheet moves plant records in and out of xlsx workbooks.
package sheet

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"herbal/entities"
	"herbal/pkg/plant/service"
)

const SheetName = "Plants"

var header = []string{"ID", "Name", "Description", "Benefit", "Compounds", "Image URL", "Created At"}

// column aliases accepted on import, matched case-insensitively
var aliases = map[string]string{
	"name":        "name",
	"nama":        "name",
	"description": "description",
	"deskripsi":   "description",
	"benefit":     "benefit",
	"manfaat":     "benefit",
	"compounds":   "compounds",
	"kandungan":   "compounds",
	"image url":   "image_url",
	"image_url":   "image_url",
	"image":       "image_url",
	"gambar":      "image_url",
}

var ErrNoHeader = errors.New("sheet: no Name column in header row")

// Row is one imported plant with its 1-based sheet row.
type Row struct {
	Line  int
	Plant service.PlantInput
}

// Export writes plants to w as an xlsx workbook.
func Export(w io.Writer, plants []entities.Plant) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return err
	}
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &row); err != nil {
		return err
	}
	for i, p := range plants {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		compounds, err := FormatCompounds(p.Compounds)
		if err != nil {
			return err
		}
		vals := []any{p.ID, p.Name, p.Description, p.Benefit, compounds, p.ImageURL, p.CreatedAt.UTC().Format(time.RFC3339)}
		if err := f.SetSheetRow(SheetName, cell, &vals); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SheetName, "B", "F", 28); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("sheet: write: %w", err)
	}
	return nil
}

// Import reads plant rows from the Plants sheet, or the first sheet if there is
// none. Rows with every mapped cell blank are skipped.
func Import(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("sheet: open: %w", err)
	}
	defer f.Close()

	name := SheetName
	if idx, _ := f.GetSheetIndex(name); idx < 0 {
		name = f.GetSheetName(0)
	}
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("sheet: read %s: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, ErrNoHeader
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if k, ok := aliases[strings.ToLower(strings.TrimSpace(h))]; ok {
			if _, dup := cols[k]; !dup {
				cols[k] = i
			}
		}
	}
	if _, ok := cols["name"]; !ok {
		return nil, ErrNoHeader
	}

	var out []Row
	for i, cells := range rows[1:] {
		get := func(k string) string {
			j, ok := cols[k]
			if !ok || j >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[j])
		}
		compounds, err := ParseCompounds(get("compounds"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		in := service.PlantInput{
			Name:        get("name"),
			Description: get("description"),
			Benefit:     get("benefit"),
			Compounds:   compounds,
			ImageURL:    get("image_url"),
		}
		if in.Name == "" && in.Description == "" && in.Benefit == "" && len(in.Compounds) == 0 && in.ImageURL == "" {
			continue
		}
		out = append(out, Row{Line: i + 2, Plant: in})
	}
	return out, nil
}

// FormatCompounds renders compounds as a JSON array of {"name","amount"}
// objects, so any text survives the trip back through ParseCompounds.
func FormatCompounds(cs []entities.Compound) (string, error) {
	if len(cs) == 0 {
		return "", nil
	}
	b, err := json.Marshal(cs)
	if err != nil {
		return "", fmt.Errorf("sheet: compounds: %w", err)
	}
	return string(b), nil
}

// ParseCompounds reads a cell written by FormatCompounds. Cells typed by hand
// as "name: amount; name: amount" are accepted too.
func ParseCompounds(s string) ([]entities.Compound, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if strings.HasPrefix(s, "[") {
		var out []entities.Compound
		if err := json.Unmarshal([]byte(s), &out); err != nil {
			return nil, fmt.Errorf("sheet: compounds: %w", err)
		}
		return out, nil
	}
	var out []entities.Compound
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, amount, _ := strings.Cut(part, ":")
		out = append(out, entities.Compound{Name: strings.TrimSpace(name), Amount: strings.TrimSpace(amount)})
	}
	return out, nil
}
