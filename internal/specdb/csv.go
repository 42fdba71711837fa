package specdb

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// CSVOptions configures the CSV specification loader.
type CSVOptions struct {
	Delimiter rune // default ','
	Comment   rune // comment character (0 = none)
}

// LoadCSV reads a specification table from a CSV stream. The first row is
// the header; columns are resolved by name.
func LoadCSV(r io.Reader, source string, opts CSVOptions) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}
	if opts.Comment != 0 {
		reader.Comment = opts.Comment
	}
	reader.FieldsPerRecord = -1 // allow variable fields

	var header []string
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "specdb: read csv %s", source)
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}
	if header == nil {
		return nil, eris.Errorf("specdb: empty csv %s", source)
	}

	idx := indexColumns(header)
	if idx["component_reference"] < 0 {
		return nil, eris.Errorf("specdb: no component reference column in %s", source)
	}

	return buildTable(header, rows, source), nil
}

// LoadCSVFile opens and reads a CSV specification table from disk.
func LoadCSVFile(path string, opts CSVOptions) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "specdb: open %s", path)
	}
	defer f.Close()
	return LoadCSV(f, path, opts)
}
