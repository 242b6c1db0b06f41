package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/server/response"
	"github.com/eparana/eparana/services"
)

func (s *Server) handleDashboard() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filters services.DashboardFilters
		if err := c.ShouldBindQuery(&filters); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("filtros inválidos", http.StatusBadRequest))
			return
		}
		metrics := s.FilterService.Dashboard(s.Session, filters)
		response.JSON(c, "", http.StatusOK, metrics, nil)
	}
}

func (s *Server) handleSummary() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows := s.FilterService.Summary(s.Session)
		response.JSON(c, "", http.StatusOK, gin.H{"rows": rows, "count": len(rows)}, nil)
	}
}

func (s *Server) handleExportExcel() gin.HandlerFunc {
	return func(c *gin.Context) {
		rows := s.FilterService.Summary(s.Session)
		buf, err := s.ExportService.SummaryWorkbook(rows)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}

		c.Header("Content-Disposition", `attachment; filename="`+services.ExportFileName+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}
