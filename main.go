package main

import (
	"log"

	"github.com/eparana/eparana/config"
	"github.com/eparana/eparana/db"
	"github.com/eparana/eparana/server"
	"github.com/eparana/eparana/services"
)

func main() {
	conf, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	gormDB := db.GetDB(conf)
	if err := db.SeedDatasetSources(gormDB.DB); err != nil {
		log.Fatalf("error seeding dataset sources: %v", err)
	}

	datasetRepo := db.NewDatasetRepo(gormDB)
	voteRepo := db.NewVoteRepo(gormDB)
	investmentRepo := db.NewInvestmentRepo(gormDB)
	campaignRepo := db.NewCampaignRepo(gormDB)

	session := services.NewSession()
	loader := services.NewDataLoader(datasetRepo, campaignRepo, voteRepo, investmentRepo, conf)
	loader.LoadAll(session)
	enricher := services.NewEnrichService()
	enricher.Fill(session, nil)

	s := &server.Server{
		Config:               conf,
		DatasetRepository:    datasetRepo,
		VoteRepository:       voteRepo,
		InvestmentRepository: investmentRepo,
		CampaignRepository:   campaignRepo,
		Session:              session,
		LoaderService:        loader,
		EnrichService:        enricher,
		HeatmapService:       services.NewHeatmapService(),
		FilterService:        services.NewFilterService(),
		ImportService:        services.NewImportService(voteRepo, investmentRepo, campaignRepo),
		ExportService:        services.NewExportService(),
		ChatService:          services.NewChatService(conf),
		SyncService:          services.NewSyncService(datasetRepo, conf),
	}
	s.Start()
}
