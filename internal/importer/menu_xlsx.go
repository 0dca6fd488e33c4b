// Package importer reads menu spreadsheets for the seed command.
package importer

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/riadice/riadice-backend/internal/app/model"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var ErrMissingColumn = errors.New("required column missing from header row")

// MenuColumns are the header names the first sheet must use; extra columns are ignored.
var MenuColumns = []string{
	"name", "name_arabic", "description", "description_arabic",
	"category", "price", "image_url", "is_active", "is_special", "special_day",
}

var requiredMenuColumns = []string{"name", "category", "price"}

// RowError reports a skipped spreadsheet row (1-based, as shown in Excel).
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

// ReadMenuXLSX parses the first sheet into menu items. validate runs on every row;
// rows that fail are skipped and reported.
func ReadMenuXLSX(r io.Reader, validate func(*model.MenuItem) error) ([]model.MenuItem, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	index := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range requiredMenuColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	items := []model.MenuItem{}
	var skipped []RowError
	for i, row := range rows[1:] {
		rowNum := i + 2
		if cell(row, "name") == "" && cell(row, "category") == "" {
			continue
		}

		item, err := parseMenuRow(row, cell)
		if err == nil && validate != nil {
			err = validate(item)
		}
		if err != nil {
			skipped = append(skipped, RowError{Row: rowNum, Err: err})
			continue
		}
		items = append(items, *item)
	}
	return items, skipped, nil
}

func parseMenuRow(row []string, cell func([]string, string) string) (*model.MenuItem, error) {
	price, err := decimal.NewFromString(cell(row, "price"))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q", cell(row, "price"))
	}

	isActive, err := parseFlag(cell(row, "is_active"), true)
	if err != nil {
		return nil, fmt.Errorf("invalid is_active: %w", err)
	}
	isSpecial, err := parseFlag(cell(row, "is_special"), false)
	if err != nil {
		return nil, fmt.Errorf("invalid is_special: %w", err)
	}

	return &model.MenuItem{
		Name:              cell(row, "name"),
		NameArabic:        cell(row, "name_arabic"),
		Description:       cell(row, "description"),
		DescriptionArabic: cell(row, "description_arabic"),
		Category:          model.MenuCategory(strings.ToLower(cell(row, "category"))),
		Price:             price,
		ImageURL:          cell(row, "image_url"),
		IsActive:          isActive,
		IsSpecial:         isSpecial,
		SpecialDay:        model.Weekday(strings.ToLower(cell(row, "special_day"))),
	}, nil
}

func parseFlag(s string, def bool) (bool, error) {
	switch strings.ToLower(s) {
	case "":
		return def, nil
	case "yes", "y":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(s)
}
