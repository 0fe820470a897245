package xlsxexport

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"cobranca/internal/csvexport"
	"cobranca/internal/domain"
)

// SheetName is the worksheet holding the report rows.
const SheetName = "Relatorios"

// builtin number format "#,##0.00"
const moneyFormat = 4

// moneyColumns hold the moved value and the debt and payment totals.
const moneyColumns = "C:E"

// Build renders reports into a workbook whose single sheet mirrors the CSV
// export columns. Money and count cells are numeric; NULL fields are left blank.
func Build(reports []domain.Report) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	header := make([]interface{}, len(csvexport.Columns))
	for i, c := range csvexport.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	for i := range reports {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		row := reportRow(&reports[i])
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("writing report row %d: %w", i+1, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: moneyFormat})
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("creating money style: %w", err)
	}
	if err := f.SetColStyle(SheetName, moneyColumns, style); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("styling money columns: %w", err)
	}
	return f, nil
}

// Write renders reports and writes the workbook to w.
func Write(w io.Writer, reports []domain.Report) error {
	f, err := Build(reports)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

// reportRow reuses the CSV row and replaces the numeric columns with typed values.
func reportRow(r *domain.Report) []interface{} {
	text := csvexport.ReportRow(r)
	row := make([]interface{}, len(text))
	for i, v := range text {
		row[i] = v
	}

	for i, v := range []struct {
		valid bool
		value float64
	}{
		{r.MovedValue.Valid, r.MovedValue.Decimal.InexactFloat64()},
		{r.TotalDebts.Valid, r.TotalDebts.Decimal.InexactFloat64()},
		{r.TotalPayments.Valid, r.TotalPayments.Decimal.InexactFloat64()},
	} {
		if v.valid {
			row[2+i] = v.value
		} else {
			row[2+i] = nil
		}
	}
	for i, count := range []*int{r.DebtCount, r.PaymentCount, r.AccountCount} {
		if count != nil {
			row[5+i] = *count
		} else {
			row[5+i] = nil
		}
	}
	return row
}
