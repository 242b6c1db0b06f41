package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/server/response"
	"github.com/eparana/eparana/services"
)

func (s *Server) handleMapColors() gin.HandlerFunc {
	return func(c *gin.Context) {
		mode := c.DefaultQuery("mode", services.ModeNone)
		source := c.DefaultQuery("source", s.FilterService.State().Source)

		colors, err := s.HeatmapService.Colors(s.Session, mode, source)
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New(err.Error(), http.StatusBadRequest))
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"mode": mode, "colors": colors}, nil)
	}
}

func (s *Server) handleGetMapFilters() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := s.FilterService.State()
		options := s.FilterService.Options(s.Session, state.Source)
		response.JSON(c, "", http.StatusOK, gin.H{"state": state, "options": options}, nil)
	}
}

func (s *Server) handleSetMapFilters() gin.HandlerFunc {
	return func(c *gin.Context) {
		var filters services.ActiveFilters
		if err := c.ShouldBindJSON(&filters); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("payload inválido", http.StatusBadRequest))
			return
		}
		state := s.FilterService.SetFilters(s.Session, filters)
		response.JSON(c, "filtros aplicados", http.StatusOK, state, nil)
	}
}

func (s *Server) handleSetMapSource() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			Source string `json:"source" binding:"required"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("source obrigatório", http.StatusBadRequest))
			return
		}
		state, err := s.FilterService.SetSource(s.Session, payload.Source)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "fonte alterada", http.StatusOK, state, nil)
	}
}

func (s *Server) handleResetMapFilters() gin.HandlerFunc {
	return func(c *gin.Context) {
		state := s.FilterService.Reset(s.Session)
		response.JSON(c, "filtros limpos", http.StatusOK, state, nil)
	}
}
