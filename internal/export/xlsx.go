package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"marketplace-service/internal/models"
)

var listingHeaders = []string{"ID", "Type", "Name", "Shape", "Carat", "Price", "Color", "Clarity", "Cut", "Lab Grown", "Created At"}

// Listings renders a seller's products as an xlsx workbook with one
// "Listings" sheet.
func Listings(products []models.Product) (*excelize.File, error) {
	f := excelize.NewFile()

	const sheet = "Listings"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	for col, header := range listingHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	for i, p := range products {
		row := []interface{}{
			p.ID,
			p.Type,
			p.Name,
			p.Shape,
			p.Carat,
			p.Price,
			p.Color,
			p.Clarity,
			p.Cut,
			p.LabGrown,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row cell: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row: %w", err)
		}
	}

	return f, nil
}
