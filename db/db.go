package db

import (
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/eparana/eparana/config"
	"github.com/eparana/eparana/models"
)

type GormDB struct {
	DB *gorm.DB
}

func GetDB(c *config.Config) *GormDB {
	gormDB := &GormDB{}
	gormDB.Init(c)
	return gormDB
}

func (g *GormDB) Init(c *config.Config) {
	g.DB = getPostgresDB(c)

	if err := migrate(g.DB); err != nil {
		log.Fatalf("unable to run migrations: %v", err)
	}
}

func getPostgresDB(c *config.Config) *gorm.DB {
	postgresDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d TimeZone=America/Sao_Paulo",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB, c.PostgresPort)

	gormConfig := &gorm.Config{}
	if c.Env != "prod" {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}
	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		DSN: postgresDSN,
	}), gormConfig)
	if err != nil {
		log.Fatal(err)
	}

	return gormDB
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.DatasetSource{},
		&models.DatasetRecord{},
		&models.Vote{},
		&models.Investment{},
		&models.CampaignAggregate{},
	)
}

// SeedDatasetSources registers the upstream providers the sync endpoints feed.
func SeedDatasetSources(db *gorm.DB) error {
	sources := []models.DatasetSource{
		{ID: uuid.New(), Name: "IBGE", Description: "Dados municipais do Paraná (IBGE)"},
		{ID: uuid.New(), Name: "TSE", Description: "Perfil do eleitorado do Paraná (TSE)"},
	}

	for _, source := range sources {
		if err := db.FirstOrCreate(&source, models.DatasetSource{Name: source.Name}).Error; err != nil {
			return err
		}
	}

	return nil
}
