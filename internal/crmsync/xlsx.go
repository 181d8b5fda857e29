package crmsync

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/prospector-cli/internal/model"
)

// SheetName is the worksheet the pipeline is written to.
const SheetName = "Pipeline"

var sheetHeader = []string{
	"Name", "Stage", "Industry", "Location", "Website", "Contact",
	"Web Presence", "Audit Score", "Maps", "Analysis",
}

// SpreadsheetSink writes the pipeline to an .xlsx workbook. Rows already in
// the sheet are updated in place by name; other sheets are left untouched.
type SpreadsheetSink struct {
	path string
}

// NewSpreadsheetSink writes to path, creating the workbook if needed.
func NewSpreadsheetSink(path string) *SpreadsheetSink {
	return &SpreadsheetSink{path: path}
}

// Push implements Sink.
func (s *SpreadsheetSink) Push(ctx context.Context, leads []model.BusinessLead) (Result, error) {
	file, err := s.open()
	if err != nil {
		return Result{}, err
	}

	sheet, ok := file.Sheet[SheetName]
	if !ok {
		if sheet, err = file.AddSheet(SheetName); err != nil {
			return Result{}, eris.Wrap(err, "crmsync: add sheet")
		}
	}
	if len(sheet.Rows) == 0 {
		writeRow(sheet.AddRow(), sheetHeader)
	}

	rowsByName := make(map[string]*xlsx.Row, len(sheet.Rows))
	for _, row := range sheet.Rows[1:] {
		if len(row.Cells) > 0 {
			rowsByName[row.Cells[0].String()] = row
		}
	}

	var res Result
	for _, l := range leads {
		if err := ctx.Err(); err != nil {
			return res, eris.Wrap(err, "crmsync: xlsx push cancelled")
		}
		if row, ok := rowsByName[l.Name]; ok {
			row.Cells = nil
			writeLead(row, l)
			res.Updated++
			continue
		}
		row := sheet.AddRow()
		writeLead(row, l)
		rowsByName[l.Name] = row
		res.Created++
	}

	if err := file.Save(s.path); err != nil {
		return res, eris.Wrapf(err, "crmsync: save %s", s.path)
	}
	return res, nil
}

func (s *SpreadsheetSink) open() (*xlsx.File, error) {
	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		return xlsx.NewFile(), nil
	}
	file, err := xlsx.OpenFile(s.path)
	if err != nil {
		return nil, eris.Wrapf(err, "crmsync: open %s", s.path)
	}
	return file, nil
}

func writeRow(row *xlsx.Row, values []string) {
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

func writeLead(row *xlsx.Row, l model.BusinessLead) {
	mapURL := l.MapURL
	if mapURL == "" {
		mapURL = l.MapsSearchURL()
	}
	writeRow(row, []string{l.Name, string(l.CRMStatus), l.Industry, l.Location, l.Website, l.ContactInfo, l.Status.Label()})
	row.AddCell().SetInt(l.AuditScore)
	writeRow(row, []string{mapURL, l.AIAnalysis})
}

// ReadSheet returns the pipeline rows of the workbook at path, header
// excluded.
func ReadSheet(path string) ([][]string, error) {
	file, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "crmsync: open %s", path)
	}
	sheet, ok := file.Sheet[SheetName]
	if !ok {
		return nil, eris.Errorf("crmsync: sheet %q not found", SheetName)
	}

	var out [][]string
	for i, row := range sheet.Rows {
		if i == 0 {
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = c.String()
		}
		out = append(out, cells)
	}
	return out, nil
}

