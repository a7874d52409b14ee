package order

import (
	"fmt"

	"github.com/tealeg/xlsx"
)

var exportHeaders = []string{
	"Order Number", "Placed At", "Status", "Payment Method", "Payment Status",
	"Total (INR)", "Tracking Number", "Items", "Customer ID", "Payment Proof",
}

// BuildExport renders orders as a single-sheet workbook.
func BuildExport(orders []*Order) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Orders")
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}

	for _, o := range orders {
		row := sheet.AddRow()
		row.AddCell().SetString(o.OrderNumber)
		row.AddCell().SetString(o.CreatedAt.Format("2006-01-02 15:04:05"))
		row.AddCell().SetString(string(o.Status))
		row.AddCell().SetString(o.PaymentMethod.Label())
		row.AddCell().SetString(string(o.PaymentStatus))
		total, _ := o.TotalAmount.Float64()
		row.AddCell().SetFloatWithFormat(total, "#,##0.00")
		row.AddCell().SetString(o.TrackingNumber)
		row.AddCell().SetInt(o.ItemCount)
		row.AddCell().SetString(o.UserID.String())
		row.AddCell().SetString(o.PaymentProofURL)
	}
	return file, nil
}
