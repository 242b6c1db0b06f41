package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/server/response"
	"github.com/eparana/eparana/services"
)

func (s *Server) handleChat() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.ChatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("Mensagem invalida", http.StatusBadRequest))
			return
		}

		answer, err := s.ChatService.Ask(c.Request.Context(), req)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "", http.StatusOK, answer, nil)
	}
}
