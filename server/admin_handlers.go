package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eparana/eparana/server/response"
)

func (s *Server) handleAdminMe() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			role = "GUEST"
		}
		response.JSON(c, "", http.StatusOK, gin.H{"role": role}, nil)
	}
}

func (s *Server) handleAdminRuns() gin.HandlerFunc {
	return func(c *gin.Context) {
		runs, err := s.SyncService.RecentRuns(20)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, gin.H{"runs": runs}, nil)
	}
}

func (s *Server) handleSync() gin.HandlerFunc {
	return func(c *gin.Context) {
		status, body, err := s.SyncService.Run(c.Request.Context(), c.Param("target"))
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		// Scraper responses pass through with their original status.
		c.Data(status, "application/json", body)
	}
}
