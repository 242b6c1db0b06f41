package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/models"
	"github.com/eparana/eparana/server/response"
)

func (s *Server) handleGetInvestmentsData() gin.HandlerFunc {
	return func(c *gin.Context) {
		investments := s.Session.Investments()
		if len(investments) == 0 {
			investments = s.LoaderService.LoadInvestments()
			s.Session.ReplaceInvestments(investments)
		}
		response.JSON(c, "", http.StatusOK, gin.H{"investments": investments, "count": len(investments)}, nil)
	}
}

func (s *Server) handleSaveInvestments() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			Investments []models.InvestmentRecord `json:"investments"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("payload inválido", http.StatusBadRequest))
			return
		}

		if s.InvestmentRepository != nil {
			rows := make([]models.Investment, 0, len(payload.Investments))
			for _, record := range payload.Investments {
				row := models.Investment{
					CityID:   record.CityID,
					CityName: record.CityName,
					Year:     record.Ano,
					Value:    record.Valor,
				}
				if record.Area != "" {
					area := record.Area
					row.Area = &area
				}
				if record.Tipo != "" {
					tipo := record.Tipo
					row.Type = &tipo
				}
				if record.Descricao != "" {
					desc := record.Descricao
					row.Description = &desc
				}
				rows = append(rows, row)
			}
			if err := s.InvestmentRepository.ReplaceInvestments(rows); err != nil {
				response.HandleErrors(c, err)
				return
			}
		}

		moneyByCity := make(map[string]float64)
		for _, record := range payload.Investments {
			moneyByCity[record.CityID] += record.Valor
		}
		s.Session.ReplaceInvestments(payload.Investments)
		s.Session.ApplyMoneyField(moneyByCity)

		response.JSON(c, "salvo", http.StatusOK, gin.H{"count": len(payload.Investments)}, nil)
	}
}

func (s *Server) handleDeleteInvestments() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.InvestmentRepository != nil {
			if err := s.InvestmentRepository.DeleteAllInvestments(); err != nil {
				response.HandleErrors(c, err)
				return
			}
		}
		s.Session.ReplaceInvestments(nil)
		s.Session.ApplyMoneyField(map[string]float64{})

		response.JSON(c, "Investimentos deletados com sucesso", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleImportInvestments() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("arquivo ausente ou inválido", http.StatusBadRequest))
			return
		}
		defer file.Close()

		summary, err := s.ImportService.ImportInvestments(file, s.Session)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, summary.Message, http.StatusOK, summary, nil)
	}
}
