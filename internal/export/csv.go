package export

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/weldcount/internal/engine"
)

// WriteCSVDir writes each row set as <name>.csv under dir, creating the
// directory if needed. Returns the written file paths.
func WriteCSVDir(res *engine.Result, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "export: create dir %s", dir)
	}

	var paths []string
	for _, rs := range buildRowSets(res) {
		path := filepath.Join(dir, rs.name+".csv")
		if err := writeCSV(path, rs); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSV(path string, rs rowSet) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(rs.header); err != nil {
		return eris.Wrapf(err, "export: write header %s", rs.name)
	}
	for _, row := range rs.rows {
		if err := w.Write(row); err != nil {
			return eris.Wrapf(err, "export: write row %s", rs.name)
		}
	}
	w.Flush()
	return eris.Wrapf(w.Error(), "export: flush %s", rs.name)
}
