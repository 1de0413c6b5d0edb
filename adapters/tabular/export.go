package tabular

import (
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"failboard/domain/survey"
	"failboard/domain/view"
	"failboard/internal/errors"
)

// WriteGroupsXLSX writes one view's aggregation to an XLSX workbook, one
// column per groupBy field plus count and proportion. Backs the dashboard's
// download button.
func WriteGroupsXLSX(w io.Writer, groupBy []survey.Field, groups []view.GroupCount) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	header := make([]interface{}, 0, len(groupBy)+2)
	for _, field := range groupBy {
		header = append(header, string(field))
	}
	header = append(header, "count", "proportion")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return errors.Wrap(err, "failed to write export header")
	}

	for i, g := range groups {
		row := make([]interface{}, 0, len(header))
		for _, k := range g.Key {
			row = append(row, k)
		}
		row = append(row, g.Count, g.Proportion)
		cell := "A" + strconv.Itoa(i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return errors.Wrapf(err, "failed to write export row %d", i)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "failed to write workbook")
	}
	return nil
}
