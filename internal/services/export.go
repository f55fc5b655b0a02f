package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/agamariel/polofashions/internal/models"
	"github.com/agamariel/polofashions/internal/orderflow"
	"github.com/xuri/excelize/v2"
)

var ErrUnknownExportFormat = errors.New("unknown export format")

// ExportFormat - формат выгрузки заказов.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

const exportSheet = "Orders"

var exportHeaders = []string{
	"ID", "Customer", "Order Type", "Category", "Item", "Quantity", "Total",
	"Status", "Status Label", "Next Statuses", "Created At", "Picked Up At",
}

// ParseExportFormat разбирает формат выгрузки. По умолчанию - xlsx.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportXLSX:
		return ExportXLSX, nil
	case ExportCSV:
		return ExportCSV, nil
	}
	return "", ErrUnknownExportFormat
}

// ContentType возвращает MIME-тип формата.
func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ExportOrders пишет таблицу заказов в w.
func ExportOrders(w io.Writer, format ExportFormat, orders []*models.Order, flow *orderflow.Flow) error {
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, exportRow(o, flow))
	}

	switch format {
	case ExportCSV:
		return writeCSV(w, rows)
	case ExportXLSX:
		return writeXLSX(w, rows)
	}
	return ErrUnknownExportFormat
}

func exportRow(o *models.Order, flow *orderflow.Flow) []string {
	category := o.Category()
	next := flow.NextStatuses(category, o.Status)
	labels := make([]string, 0, len(next))
	for _, s := range next {
		labels = append(labels, orderflow.Label(s))
	}

	pickedUp := ""
	if o.PickedUpAt != nil {
		pickedUp = o.PickedUpAt.Format(time.RFC3339)
	}

	return []string{
		o.ID.String(),
		o.CustomerName,
		string(o.OrderType),
		string(category),
		o.ItemName,
		fmt.Sprint(o.Quantity),
		o.TotalPrice.StringFixed(2),
		string(o.Status),
		orderflow.Label(o.Status),
		strings.Join(labels, ", "),
		o.CreatedAt.Format(time.RFC3339),
		pickedUp,
	}
}

func writeCSV(w io.Writer, rows [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	if err := setRow(f, 1, exportHeaders); err != nil {
		return err
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	if err := f.SetCellStyle(exportSheet, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		if err := setRow(f, i+2, row); err != nil {
			return err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	if err := f.SetColWidth(exportSheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(exportSheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
