package server

import (
	"fmt"
	"net/http"
	"os"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func (s *Server) setupRouter() *gin.Engine {
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "test" {
		r := gin.New()
		s.defineRoutes(r)
		return r
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		return fmt.Sprintf("%s - [%s] \"%s %s %s %d %s \"%s\" %s\"\n",
			param.ClientIP,
			param.TimeStamp.Format(time.RFC1123),
			param.Method,
			param.Path,
			param.Request.Proto,
			param.StatusCode,
			param.Latency,
			param.Request.UserAgent(),
			param.ErrorMessage,
		)
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.MaxMultipartMemory = 32 << 20
	s.defineRoutes(r)

	return r
}

func (s *Server) defineRoutes(router *gin.Engine) {
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{Rate: time.Minute, Limit: 3})
	limitSync := limitRateForSync(store)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apirouter := router.Group("/api/v1")
	apirouter.GET("/data/cidades", s.handleGetCidades())
	apirouter.GET("/data/eleitorado", s.handleGetEleitorado())
	apirouter.GET("/campaign/data", s.handleGetCampaignData())
	apirouter.GET("/votos/data", s.handleGetVotosData())
	apirouter.GET("/investments/data", s.handleGetInvestmentsData())
	apirouter.GET("/map/colors", s.handleMapColors())
	apirouter.GET("/map/filters", s.handleGetMapFilters())
	apirouter.GET("/analytics/dashboard", s.handleDashboard())
	apirouter.GET("/analytics/summary", s.handleSummary())
	apirouter.POST("/chat", s.handleChat())

	authorized := apirouter.Group("/")
	authorized.Use(s.Authorize())
	authorized.POST("/campaign/update", s.handleCampaignUpdate())
	authorized.POST("/campaign/update_bulk", s.handleCampaignUpdateBulk())
	authorized.POST("/votos/save", s.handleSaveVotos())
	authorized.DELETE("/votos", s.handleDeleteVotos())
	authorized.POST("/investments/save", s.handleSaveInvestments())
	authorized.DELETE("/investments", s.handleDeleteInvestments())
	authorized.POST("/import/votos", s.handleImportVotos())
	authorized.POST("/import/investments", s.handleImportInvestments())
	authorized.POST("/map/filters", s.handleSetMapFilters())
	authorized.POST("/map/source", s.handleSetMapSource())
	authorized.POST("/map/filters/reset", s.handleResetMapFilters())
	authorized.POST("/export_excel", s.handleExportExcel())
	authorized.GET("/admin/me", s.handleAdminMe())
	authorized.GET("/admin/runs", s.handleAdminRuns())
	authorized.POST("/sync/:target", limitSync, s.handleSync())
}
