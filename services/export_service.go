package services

import (
	"bytes"
	"fmt"
	"math"
	"net/http"

	"github.com/xuri/excelize/v2"

	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/models"
)

// ExportFileName is the download name of the summary workbook.
const ExportFileName = "Resumo_Campanha_Parana.xlsx"

var exportHeader = []interface{}{
	"Cidade", "Votos", "Investimento (R$)", "Conversão (%)",
	"R$/Voto", "R$/Pop", "Participação (%)",
}

// ExportService renders the per-city summary as an xlsx workbook.
type ExportService interface {
	SummaryWorkbook(rows []models.SummaryRow) (*bytes.Buffer, error)
}

type exportService struct{}

func NewExportService() ExportService {
	return &exportService{}
}

func (e *exportService) SummaryWorkbook(rows []models.SummaryRow) (*bytes.Buffer, error) {
	if len(rows) == 0 {
		return nil, errs.New("Não há dados para exportar.", http.StatusBadRequest)
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Resumo"
	f.SetSheetName(f.GetSheetName(0), sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})
	if err != nil {
		return nil, err
	}

	if err := f.SetSheetRow(sheet, "A1", &exportHeader); err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", headerStyle); err != nil {
		return nil, err
	}

	for i, row := range rows {
		values := []interface{}{
			row.Name,
			row.Votes,
			round2(row.Money),
			round2(row.Conversion),
			round2(row.CostVote),
			round2(row.CostPop),
			round2(row.Share),
		}
		axis := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, axis, &values); err != nil {
			return nil, err
		}
	}

	f.SetColWidth(sheet, "A", "A", 28)
	f.SetColWidth(sheet, "B", "G", 16)

	return f.WriteToBuffer()
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
