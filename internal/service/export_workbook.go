package service

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/telaviv/ops-dashboard/internal/domain"
)

const (
	// ExportFileName is the download name of the collaborator spreadsheet.
	ExportFileName = "Relatorio_Colaboradores_Nexti.xlsx"
	// ExportContentType is the MIME type of the spreadsheet.
	ExportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	exportSheet = "Colaboradores"
)

type exportColumn struct {
	header string
	width  float64
	value  func(domain.Collaborator) string
}

var exportColumns = []exportColumn{
	{"Hora", 20, func(c domain.Collaborator) string { return c.GeneratedAt }},
	{"Empresa", 35, func(c domain.Collaborator) string { return c.Company }},
	{"Cliente", 35, func(c domain.Collaborator) string { return c.Client }},
	{"Negócio", 25, func(c domain.Collaborator) string { return c.BusinessUnit }},
	{"Posto", 35, func(c domain.Collaborator) string { return c.Workplace }},
	{"Colaborador", 35, func(c domain.Collaborator) string { return c.Name }},
	{"Matrícula", 15, func(c domain.Collaborator) string { return c.Registration }},
	{"CPF", 20, func(c domain.Collaborator) string { return c.CPF }},
	{"Cargo", 25, func(c domain.Collaborator) string { return c.JobTitle }},
	{"Cronograma", 20, func(c domain.Collaborator) string { return c.Schedule }},
	{"Horário", 20, func(c domain.Collaborator) string { return c.Hours }},
	{"Turno", 25, func(c domain.Collaborator) string { return c.Shift }},
}

func thinBorders() []excelize.Border {
	borders := make([]excelize.Border, 0, 4)
	for _, side := range []string{"top", "left", "bottom", "right"} {
		borders = append(borders, excelize.Border{Type: side, Color: "000000", Style: 1})
	}
	return borders
}

// BuildWorkbook renders rows into the collaborator spreadsheet: one bold,
// blue, bordered header row with an auto-filter and one bordered row per
// collaborator.
func BuildWorkbook(rows []domain.Collaborator) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: "Sans-Serif", Size: 10, Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"9FC5E8"}},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Family: "Sans-Serif", Size: 8},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("body style: %w", err)
	}

	header := make([]interface{}, len(exportColumns))
	for i, col := range exportColumns {
		header[i] = col.header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(exportSheet, name, name, col.width); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(exportColumns))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(exportColumns))
		for j, col := range exportColumns {
			values[j] = col.value(row)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	if len(rows) > 0 {
		last := fmt.Sprintf("%s%d", lastCol, len(rows)+1)
		if err := f.SetCellStyle(exportSheet, "A2", last, bodyStyle); err != nil {
			return nil, fmt.Errorf("style body: %w", err)
		}
	}

	if err := f.AutoFilter(exportSheet, "A1:"+lastCol+"1", nil); err != nil {
		return nil, fmt.Errorf("auto filter: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
