// Package spreadsheet は社員レコードの Excel 取り込みと書き出しを提供します。
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/ogurasousui/hc-talent-grpc/internal/core/employee"
	"github.com/ogurasousui/hc-talent-grpc/internal/core/talent"
)

// SheetName は取り込み・書き出しに使うシート名です。
const SheetName = "employees"

var (
	// ErrNoData はヘッダ行しか無い、または空のブックの場合に返却されます。
	ErrNoData = errors.New("spreadsheet: no data rows")
	// ErrMissingHeader は employee_id 列が無い場合に返却されます。
	ErrMissingHeader = errors.New("spreadsheet: employee_id column is required")
)

// Columns は入力可能なフィールドの列名です。
var Columns = []string{
	employee.FieldEmployeeID,
	employee.FieldFullName,
	employee.FieldEmail,
	employee.FieldDepartment,
	employee.FieldBureau,
	employee.FieldJobTitle,
	employee.FieldRankLevel,
	employee.FieldWorkLocation,
	employee.FieldDateJoined,
	employee.FieldTenureInUnit,
	employee.FieldTenureInDepartment,
	employee.FieldAvgPerformance3Yr,
	employee.FieldHasDisciplineIssue,
	employee.FieldTechnicalSkills,
	employee.FieldSoftSkills,
	employee.FieldCertifications,
	employee.FieldNotes,
}

// DerivedColumns は書き出し時にのみ付与される派生列です。取り込み時は無視します。
var DerivedColumns = []string{
	employee.FieldDataQualityScore,
	employee.FieldIsPromotionCandidate,
	employee.FieldCompetencyGapScore,
	employee.FieldReadinessIndex,
	employee.FieldLastUpdated,
}

// Read はブックを読み込み、取り込み行と変換に失敗した行を返します。
// employees シートが無い場合は先頭シートを読みます。未知の列と空行は無視します。
func Read(r io.Reader) ([]employee.ImportRow, []employee.RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("spreadsheet: open workbook: %w", err)
	}
	defer f.Close()

	sheet := SheetName
	if idx, err := f.GetSheetIndex(SheetName); err != nil || idx < 0 {
		sheet = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, nil, fmt.Errorf("spreadsheet: read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, nil, ErrNoData
	}

	index := headerIndex(rows[0])
	if _, ok := index[employee.FieldEmployeeID]; !ok {
		return nil, nil, ErrMissingHeader
	}

	var (
		out      []employee.ImportRow
		failures []employee.RowError
	)
	for i := 1; i < len(rows); i++ {
		cells := rowCells{values: rows[i], index: index}
		if cells.empty() {
			continue
		}

		rowNumber := i + 1
		rec, err := cells.record()
		if err != nil {
			failures = append(failures, employee.RowError{
				Row:        rowNumber,
				EmployeeID: cells.get(employee.FieldEmployeeID),
				Err:        fmt.Errorf("%w: %v", employee.ErrInvalidRecord, err),
			})
			continue
		}
		out = append(out, employee.ImportRow{Row: rowNumber, Record: rec})
	}

	return out, failures, nil
}

// Write は社員レコードを派生列付きで employees シートに書き出します。
func Write(w io.Writer, employees []*employee.Employee) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("spreadsheet: rename sheet: %w", err)
	}

	header := make([]any, 0, len(Columns)+len(DerivedColumns))
	for _, col := range Columns {
		header = append(header, col)
	}
	for _, col := range DerivedColumns {
		header = append(header, col)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("spreadsheet: write header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(SheetName, "A1", last, style)
	}

	for i, e := range employees {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := exportValues(e)
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("spreadsheet: write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("spreadsheet: write workbook: %w", err)
	}
	return nil
}

func exportValues(e *employee.Employee) []any {
	var dateJoined, performance any = "", ""
	if e.DateJoined != nil {
		dateJoined = e.DateJoined.Format(employee.DateLayout)
	}
	if e.AvgPerformance3Yr != nil {
		performance = *e.AvgPerformance3Yr
	}

	return []any{
		e.EmployeeID,
		e.FullName,
		e.Email,
		e.Department,
		e.Bureau,
		e.JobTitle,
		e.RankLevel,
		e.WorkLocation,
		dateJoined,
		e.TenureInUnit,
		e.TenureInDepartment,
		performance,
		e.HasDisciplineIssue,
		e.TechnicalSkills,
		e.SoftSkills,
		e.Certifications,
		e.Notes,
		e.DataQualityScore,
		e.IsPromotionCandidate,
		e.CompetencyGapScore,
		e.ReadinessIndex,
		e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// headerIndex は正規化した列名から列番号への対応を返します。重複列は先頭を使います。
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}
	return index
}

type rowCells struct {
	values []string
	index  map[string]int
}

func (c rowCells) get(field string) string {
	idx, ok := c.index[field]
	if !ok || idx >= len(c.values) {
		return ""
	}
	return strings.TrimSpace(c.values[idx])
}

func (c rowCells) empty() bool {
	for _, v := range c.values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (c rowCells) record() (talent.Record, error) {
	rec := talent.Record{
		EmployeeID:      c.get(employee.FieldEmployeeID),
		FullName:        c.get(employee.FieldFullName),
		Email:           c.get(employee.FieldEmail),
		Department:      c.get(employee.FieldDepartment),
		Bureau:          c.get(employee.FieldBureau),
		JobTitle:        c.get(employee.FieldJobTitle),
		RankLevel:       c.get(employee.FieldRankLevel),
		WorkLocation:    c.get(employee.FieldWorkLocation),
		TechnicalSkills: c.get(employee.FieldTechnicalSkills),
		SoftSkills:      c.get(employee.FieldSoftSkills),
		Certifications:  c.get(employee.FieldCertifications),
		Notes:           c.get(employee.FieldNotes),
	}

	var errs []error
	collect := func(field string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	var err error
	rec.DateJoined, err = parseDate(c.get(employee.FieldDateJoined))
	collect(employee.FieldDateJoined, err)

	rec.TenureInUnit, err = parseFloat(c.get(employee.FieldTenureInUnit))
	collect(employee.FieldTenureInUnit, err)

	rec.TenureInDepartment, err = parseFloat(c.get(employee.FieldTenureInDepartment))
	collect(employee.FieldTenureInDepartment, err)

	if raw := c.get(employee.FieldAvgPerformance3Yr); raw != "" {
		v, err := parseFloat(raw)
		if err != nil {
			collect(employee.FieldAvgPerformance3Yr, err)
		} else {
			rec.AvgPerformance3Yr = &v
		}
	}

	rec.HasDisciplineIssue, err = parseBool(c.get(employee.FieldHasDisciplineIssue))
	collect(employee.FieldHasDisciplineIssue, err)

	if len(errs) > 0 {
		return talent.Record{}, errors.Join(errs...)
	}
	return rec, nil
}

// parseDate は YYYY-MM-DD 文字列か Excel のシリアル値を受け付けます。
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(employee.DateLayout, raw, time.UTC); err == nil {
		return &t, nil
	}
	serial, err := parseFloat(raw)
	if err != nil {
		return nil, errors.New("expected YYYY-MM-DD")
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return nil, errors.New("expected YYYY-MM-DD")
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}

func parseFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a number")
	}
	return v, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "", "0", "false", "no", "n":
		return false, nil
	case "1", "true", "yes", "y":
		return true, nil
	default:
		return false, fmt.Errorf("unrecognized boolean %q", raw)
	}
}
