package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/eparana/eparana/config"
	"github.com/eparana/eparana/db"
	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/models"
)

// SyncService triggers the external scraper service and exposes the recent
// dataset records it produced. The scrapers write their payloads straight to
// the dataset tables, so a run shows up through the Loader on the next boot.
type SyncService interface {
	Run(ctx context.Context, target string) (int, json.RawMessage, error)
	RecentRuns(limit int) ([]models.DatasetRecord, error)
}

type syncService struct {
	conf        *config.Config
	datasetRepo db.DatasetRepository
	client      *http.Client
}

func NewSyncService(datasetRepo db.DatasetRepository, conf *config.Config) SyncService {
	return &syncService{
		conf:        conf,
		datasetRepo: datasetRepo,
		client:      &http.Client{Timeout: 5 * time.Minute},
	}
}

var syncTargets = map[string]bool{"ibge": true, "tse": true, "all": true}

// Run proxies to the scraper service and relays status and body untouched.
func (s *syncService) Run(ctx context.Context, target string) (int, json.RawMessage, error) {
	if !syncTargets[target] {
		return 0, nil, errs.New("alvo de sincronização inválido: "+target, http.StatusBadRequest)
	}
	if s.conf.ScraperServiceURL == "" {
		return 0, nil, errs.New("SCRAPER_SERVICE_URL nao configurado", http.StatusInternalServerError)
	}

	url := s.conf.ScraperServiceURL + "/run/" + target
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return 0, nil, errors.Wrap(err, "build sync request")
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, nil, errors.Wrap(err, "call scraper service")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errors.Wrap(err, "read scraper response")
	}
	if !json.Valid(body) {
		body, _ = json.Marshal(map[string]string{"raw": string(body)})
	}
	return resp.StatusCode, body, nil
}

func (s *syncService) RecentRuns(limit int) ([]models.DatasetRecord, error) {
	if s.datasetRepo == nil {
		return nil, nil
	}
	return s.datasetRepo.RecentRecords(limit)
}
