package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eparana/eparana/models"
)

func TestSummaryWorkbook(t *testing.T) {
	rows := []models.SummaryRow{
		{Name: "Curitiba", Votes: 30000, Money: 10000, Conversion: 2.14, CostVote: 0.33, CostPop: 0.005, Share: 85.71},
		{Name: "Londrina", Votes: 5000, Money: 3000, Conversion: 1.28, CostVote: 0.6, CostPop: 0.005, Share: 14.29},
	}

	buf, err := NewExportService().SummaryWorkbook(rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows("Resumo")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "Cidade", got[0][0])
	assert.Equal(t, "Participação (%)", got[0][6])
	assert.Equal(t, "Curitiba", got[1][0])
	assert.Equal(t, "30000", got[1][1])
	assert.Equal(t, "Londrina", got[2][0])
}

func TestSummaryWorkbookEmpty(t *testing.T) {
	_, err := NewExportService().SummaryWorkbook(nil)
	assert.Error(t, err)
}
