package dataprocessing

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	apierrors "timeseer/internal/errors"
)

// ParseXLSX reads the named sheet, or the first sheet when sheet is empty,
// and parses its rows exactly like CSV rows
func ParseXLSX(r io.Reader, sheet string) (*Frame, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apierrors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apierrors.NewParsingError("workbook has no sheets", ErrNoRows)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apierrors.NewParsingError(fmt.Sprintf("failed to read sheet %q", sheet), err).
			WithContext("sheet", sheet)
	}

	// GetRows omits trailing empty rows but keeps interior blanks
	kept := rows[:0]
	for _, row := range rows {
		if len(row) > 0 {
			kept = append(kept, row)
		}
	}
	return FromRows(kept)
}
