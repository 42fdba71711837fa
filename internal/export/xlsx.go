package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/weldcount/internal/engine"
)

// WriteXLSX writes all row sets into one workbook, one sheet per row set,
// with the tally summary as its own sheet.
func WriteXLSX(res *engine.Result, path string) error {
	f := xlsx.NewFile()

	for _, rs := range buildRowSets(res) {
		sheet, err := f.AddSheet(rs.name)
		if err != nil {
			return eris.Wrapf(err, "export: add sheet %s", rs.name)
		}
		headerRow := sheet.AddRow()
		for _, h := range rs.header {
			headerRow.AddCell().SetString(h)
		}
		for _, row := range rs.rows {
			xr := sheet.AddRow()
			for _, cell := range row {
				xr.AddCell().SetString(cell)
			}
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "export: save %s", path)
	}
	return nil
}
