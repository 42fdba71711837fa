// Package specdb loads the external component specification table and
// exposes it as a read-only lookup keyed by component reference.
package specdb

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/weldcount/internal/model"
)

// Table is an immutable in-memory SpecificationSource. It is safe to share
// across parallel parse workers without locking.
type Table struct {
	records map[string]model.SpecRecord
}

// NewTable builds a Table from a slice of records. Duplicate component
// references are last-write-wins, matching the listing parser contract.
func NewTable(records []model.SpecRecord) *Table {
	m := make(map[string]model.SpecRecord, len(records))
	for _, r := range records {
		if r.ComponentRef == "" {
			continue
		}
		m[normalizeRef(r.ComponentRef)] = r
	}
	return &Table{records: m}
}

// Lookup returns the specification record for a component reference.
// A miss is an expected outcome and returns false.
func (t *Table) Lookup(componentRef string) (model.SpecRecord, bool) {
	r, ok := t.records[normalizeRef(componentRef)]
	return r, ok
}

// Len returns the number of records in the table.
func (t *Table) Len() int {
	return len(t.records)
}

// normalizeRef canonicalizes a component reference for joining: case folded,
// trimmed, leading slash stripped.
func normalizeRef(ref string) string {
	return strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(ref), "/"))
}

// columnAliases maps canonical column keys to accepted header spellings.
// The join is by named field, never by column position.
var columnAliases = map[string][]string{
	"component_reference": {"component_reference", "component_ref", "ref", "name", "component"},
	"port1_conn":          {"port1_conn", "p1conn", "con1", "conn1", "port1"},
	"port2_conn":          {"port2_conn", "p2conn", "con2", "conn2", "port2"},
	"type":                {"type", "component_type", "gtype"},
	"bore":                {"bore", "pbor", "pbore"},
	"secondary_bore":      {"secondary_bore", "pbor1", "bore2"},
	"form_factor":         {"form_factor", "form", "ff"},
}

// columnIndex resolves header names to column positions. Missing optional
// columns resolve to -1; a missing component_reference column is reported
// by the callers as a fatal input error.
type columnIndex map[string]int

func indexColumns(header []string) columnIndex {
	idx := make(columnIndex, len(columnAliases))
	for key := range columnAliases {
		idx[key] = -1
	}
	for col, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		name = strings.ReplaceAll(name, " ", "_")
		for key, aliases := range columnAliases {
			if idx[key] != -1 {
				continue
			}
			for _, a := range aliases {
				if name == a {
					idx[key] = col
					break
				}
			}
		}
	}
	return idx
}

func (idx columnIndex) cell(row []string, key string) string {
	col := idx[key]
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

// recordFromRow converts one table row to a SpecRecord. Blank and NaN cells
// become zero values, which the cross-referencer treats as "not BWD".
func recordFromRow(idx columnIndex, row []string) model.SpecRecord {
	return model.SpecRecord{
		ComponentRef: idx.cell(row, "component_reference"),
		Port1Conn:    model.ConnectionType(strings.ToUpper(idx.cell(row, "port1_conn"))),
		Port2Conn:    model.ConnectionType(strings.ToUpper(idx.cell(row, "port2_conn"))),
		Type:         model.ParseComponentType(idx.cell(row, "type")),
		Bore:         parseCell(idx.cell(row, "bore")),
		Bore2:        parseCell(idx.cell(row, "secondary_bore")),
		Form:         parseCell(idx.cell(row, "form_factor")),
	}
}

// parseCell parses a numeric cell, treating blanks, NaN markers, and
// malformed values as zero.
func parseCell(s string) float64 {
	s = strings.TrimSuffix(strings.TrimSpace(s), "mm")
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "n/a") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// buildTable assembles a Table from header + data rows, logging rows that
// carry no component reference.
func buildTable(header []string, rows [][]string, source string) *Table {
	idx := indexColumns(header)
	records := make([]model.SpecRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		rec := recordFromRow(idx, row)
		if rec.ComponentRef == "" {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	if skipped > 0 {
		zap.L().Info("specdb: skipped rows without component reference",
			zap.Int("rows", skipped),
			zap.String("source", source),
		)
	}
	return NewTable(records)
}
