package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eparana/eparana/server/response"
)

func (s *Server) handleGetCidades() gin.HandlerFunc {
	return func(c *gin.Context) {
		cities := s.Session.Cities()
		if len(cities) == 0 {
			cities = s.LoaderService.LoadCities()
			s.Session.ReplaceCities(cities)
		}
		response.JSON(c, "", http.StatusOK, cities, nil)
	}
}

func (s *Server) handleGetEleitorado() gin.HandlerFunc {
	return func(c *gin.Context) {
		profiles := s.Session.ElectorateAll()
		if len(profiles) == 0 {
			profiles = s.LoaderService.LoadElectorate()
			s.Session.ReplaceElectorate(profiles)
		}
		response.JSON(c, "", http.StatusOK, profiles, nil)
	}
}
