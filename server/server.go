package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eparana/eparana/config"
	"github.com/eparana/eparana/db"
	"github.com/eparana/eparana/services"
)

type Server struct {
	Config *config.Config

	DatasetRepository    db.DatasetRepository
	VoteRepository       db.VoteRepository
	InvestmentRepository db.InvestmentRepository
	CampaignRepository   db.CampaignRepository

	Session        *services.Session
	LoaderService  services.LoaderService
	EnrichService  services.EnrichService
	HeatmapService services.HeatmapService
	FilterService  services.FilterService
	ImportService  services.ImportService
	ExportService  services.ExportService
	ChatService    services.ChatService
	SyncService    services.SyncService
}

// Start serves the API until SIGINT/SIGTERM, then drains for up to ten
// seconds.
func (s *Server) Start() {
	port := s.Config.Port
	if port == 0 {
		port = 8080
	}
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.setupRouter(),
	}

	go func() {
		log.Printf("eParaná API listening on :%d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("server exited")
}
