package ingest

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadXLSX reads the first sheet of a member export workbook into
// header-keyed rows, using row 1 as the header.
func ReadXLSX(path string) ([]map[string]string, error) {
	wb, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open %s", path)
	}
	if len(wb.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s has no sheets", path)
	}
	sheet := wb.Sheets[0]
	if len(sheet.Rows) < 1 {
		return nil, eris.Errorf("ingest: %s first sheet is empty", path)
	}

	header := make([]string, len(sheet.Rows[0].Cells))
	for i, cell := range sheet.Rows[0].Cells {
		header[i] = cell.String()
	}

	var rows []map[string]string
	for _, sheetRow := range sheet.Rows[1:] {
		row := make(map[string]string, len(header))
		for i, cell := range sheetRow.Cells {
			if i < len(header) && header[i] != "" {
				row[header[i]] = cell.String()
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows, nil
}
