package dashboard

import (
	"context"
	"fmt"

	"go-workforce/internal/workflow"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Pending"

var exportHeaders = []string{"Reference", "Type", "Employee", "Project", "Summary", "Requested At"}

// ExportPending renders the pending list as a workbook. The caller closes it.
func (s *service) ExportPending(ctx context.Context, principalID int64, family workflow.Family) (*excelize.File, string, error) {
	items, err := s.PendingList(ctx, principalID, family)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		_ = f.Close()
		return nil, "", err
	}

	header, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(exportSheet, cell, h)
		_ = f.SetCellStyle(exportSheet, cell, cell, header)
	}

	for i, it := range items {
		row := i + 2
		values := []any{
			it.ReferenceNumber,
			it.Family.Label(),
			it.EmployeeName,
			it.ProjectName,
			it.Summary,
			it.RequestedAt.UTC().Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(exportSheet, cell, v)
		}
	}

	for i, w := range []float64{16, 18, 24, 24, 40, 18} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(exportSheet, col, col, w)
	}

	name := "pending-requests.xlsx"
	if family != "" {
		name = fmt.Sprintf("pending-%s-requests.xlsx", family.Slug())
	}
	return f, name, nil
}
