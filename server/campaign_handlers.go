package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/models"
	"github.com/eparana/eparana/server/response"
)

func (s *Server) handleGetCampaignData() gin.HandlerFunc {
	return func(c *gin.Context) {
		totals := s.Session.Campaign()
		if len(totals) == 0 {
			totals = s.LoaderService.LoadCampaign()
			s.Session.ReplaceCampaign(totals)
		}
		response.JSON(c, "", http.StatusOK, totals, nil)
	}
}

func (s *Server) handleCampaignUpdate() gin.HandlerFunc {
	return func(c *gin.Context) {
		var item models.CampaignBulkItem
		if err := c.ShouldBindJSON(&item); err != nil || item.CitySlug == "" {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("city_slug obrigatório", http.StatusBadRequest))
			return
		}

		if s.CampaignRepository != nil {
			if err := s.CampaignRepository.BulkUpsert([]models.CampaignBulkItem{item}); err != nil {
				response.HandleErrors(c, err)
				return
			}
		}
		totals := models.CampaignTotals{Votes: item.Votes, Money: item.Money}
		s.Session.SetTotals(item.CitySlug, totals)

		response.JSON(c, "atualizado", http.StatusOK, gin.H{item.CitySlug: totals}, nil)
	}
}

func (s *Server) handleCampaignUpdateBulk() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			Items []models.CampaignBulkItem `json:"items"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil || len(payload.Items) == 0 {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("items obrigatório", http.StatusBadRequest))
			return
		}

		if s.CampaignRepository != nil {
			if err := s.CampaignRepository.BulkUpsert(payload.Items); err != nil {
				response.HandleErrors(c, err)
				return
			}
		}
		for _, item := range payload.Items {
			s.Session.SetTotals(item.CitySlug, models.CampaignTotals{Votes: item.Votes, Money: item.Money})
		}

		response.JSON(c, "atualizado", http.StatusOK, gin.H{"updates": len(payload.Items)}, nil)
	}
}
