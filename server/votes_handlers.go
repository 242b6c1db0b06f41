package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/models"
	"github.com/eparana/eparana/server/response"
)

func (s *Server) handleGetVotosData() gin.HandlerFunc {
	return func(c *gin.Context) {
		votos := s.Session.Votes()
		if len(votos) == 0 {
			votos = s.LoaderService.LoadVotes()
			s.Session.ReplaceVotes(votos)
		}
		response.JSON(c, "", http.StatusOK, gin.H{"votos": votos, "count": len(votos)}, nil)
	}
}

func (s *Server) handleSaveVotos() gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload struct {
			Votos map[string][]models.VoteEntry `json:"votos"`
		}
		if err := c.ShouldBindJSON(&payload); err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("payload inválido", http.StatusBadRequest))
			return
		}
		if payload.Votos == nil {
			payload.Votos = map[string][]models.VoteEntry{}
		}

		rows := make([]models.Vote, 0)
		for slug, entries := range payload.Votos {
			for _, entry := range entries {
				rows = append(rows, models.Vote{CityID: slug, Year: entry.Ano, Votes: entry.Votos})
			}
		}
		if s.VoteRepository != nil {
			if err := s.VoteRepository.ReplaceVotes(rows); err != nil {
				response.HandleErrors(c, err)
				return
			}
		}
		s.Session.ReplaceVotes(payload.Votos)

		response.JSON(c, "salvo", http.StatusOK, gin.H{"count": len(rows)}, nil)
	}
}

func (s *Server) handleDeleteVotos() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.VoteRepository != nil {
			if err := s.VoteRepository.DeleteAllVotes(); err != nil {
				response.HandleErrors(c, err)
				return
			}
		}
		s.Session.ReplaceVotes(nil)

		// Money stays: the aggregates rebuild from investments alone.
		zeroed := make(map[string]int)
		for slug := range s.Session.Campaign() {
			zeroed[slug] = 0
		}
		s.Session.ApplyVotesField(zeroed)

		response.JSON(c, "Votos deletados com sucesso", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleImportVotos() gin.HandlerFunc {
	return func(c *gin.Context) {
		file, _, err := c.Request.FormFile("file")
		if err != nil {
			response.JSON(c, "", http.StatusBadRequest, nil, errs.New("arquivo ausente ou inválido", http.StatusBadRequest))
			return
		}
		defer file.Close()

		summary, err := s.ImportService.ImportVotes(file, s.Session)
		if err != nil {
			response.HandleErrors(c, err)
			return
		}
		response.JSON(c, "importado", http.StatusOK, summary, nil)
	}
}
