package services

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/eparana/eparana/config"
	"github.com/eparana/eparana/db"
	"github.com/eparana/eparana/models"
	"github.com/eparana/eparana/services/utils"
)

// LoaderService hydrates a session from the backing store, falling back to
// the bundled JSON files when the database is unreachable or empty. Sources
// for one dataset are tried strictly in order; the first well-formed payload
// wins and a dataset that fails everywhere yields an empty collection, never
// an error.
type LoaderService interface {
	LoadAll(session *Session)
	LoadCities() map[string]*models.City
	LoadElectorate() map[string]*models.ElectorateProfile
	LoadCampaign() map[string]models.CampaignTotals
	LoadVotes() map[string][]models.VoteEntry
	LoadInvestments() []models.InvestmentRecord
}

type DataLoader struct {
	Config         *config.Config
	datasetRepo    db.DatasetRepository
	campaignRepo   db.CampaignRepository
	voteRepo       db.VoteRepository
	investmentRepo db.InvestmentRepository
}

func NewDataLoader(datasetRepo db.DatasetRepository, campaignRepo db.CampaignRepository, voteRepo db.VoteRepository, investmentRepo db.InvestmentRepository, conf *config.Config) *DataLoader {
	return &DataLoader{
		Config:         conf,
		datasetRepo:    datasetRepo,
		campaignRepo:   campaignRepo,
		voteRepo:       voteRepo,
		investmentRepo: investmentRepo,
	}
}

func (l *DataLoader) LoadAll(session *Session) {
	session.ReplaceCities(l.LoadCities())
	session.ReplaceElectorate(l.LoadElectorate())
	session.ReplaceCampaign(l.LoadCampaign())
	session.ReplaceVotes(l.LoadVotes())
	session.ReplaceInvestments(l.LoadInvestments())
}

func (l *DataLoader) LoadCities() map[string]*models.City {
	var cities map[string]*models.City
	err := l.loadDataset("IBGE", []string{"cidades_pr.json"}, &cities)
	if err != nil {
		log.Printf("cidades: all sources failed: %v", err)
		return make(map[string]*models.City)
	}
	if cities == nil {
		cities = make(map[string]*models.City)
	}
	return cities
}

func (l *DataLoader) LoadElectorate() map[string]*models.ElectorateProfile {
	var raw map[string]*models.ElectorateProfile
	err := l.loadDataset("TSE", []string{"dados_eleitorais.json"}, &raw)
	if err != nil {
		log.Printf("eleitorado: all sources failed: %v", err)
		return make(map[string]*models.ElectorateProfile)
	}

	// Keys arrive in scraper form; normalize so they join against city slugs.
	out := make(map[string]*models.ElectorateProfile, len(raw))
	for key, profile := range raw {
		out[utils.NormalizeKey(key)] = profile
	}
	return out
}

func (l *DataLoader) LoadCampaign() map[string]models.CampaignTotals {
	if l.campaignRepo != nil {
		totals, err := l.campaignRepo.GetAggregates()
		if err == nil && len(totals) > 0 {
			return totals
		}
		if err != nil {
			log.Printf("campanha: erro ao acessar o banco: %v", err)
		}
	}

	var totals map[string]models.CampaignTotals
	if err := l.readFirstJSON([]string{"campaign_data.json"}, &totals); err != nil {
		log.Printf("campanha: fallback indisponível: %v", err)
		return make(map[string]models.CampaignTotals)
	}
	if totals == nil {
		totals = make(map[string]models.CampaignTotals)
	}
	return totals
}

func (l *DataLoader) LoadVotes() map[string][]models.VoteEntry {
	if l.voteRepo != nil {
		rows, err := l.voteRepo.ListVotes()
		if err == nil && len(rows) > 0 {
			return GroupVotes(rows)
		}
		if err != nil {
			log.Printf("votos: erro ao acessar o banco: %v", err)
		}
	}

	var votes map[string][]models.VoteEntry
	if err := l.readFirstJSON([]string{"votos_data.json"}, &votes); err != nil {
		log.Printf("votos: fallback indisponível: %v", err)
		return make(map[string][]models.VoteEntry)
	}
	if votes == nil {
		votes = make(map[string][]models.VoteEntry)
	}
	return votes
}

func (l *DataLoader) LoadInvestments() []models.InvestmentRecord {
	if l.investmentRepo != nil {
		rows, err := l.investmentRepo.ListInvestments()
		if err == nil && len(rows) > 0 {
			return InvestmentRecords(rows)
		}
		if err != nil {
			log.Printf("investimentos: erro ao acessar o banco: %v", err)
		}
	}

	var records []models.InvestmentRecord
	if err := l.readFirstJSON([]string{"investments_data.json"}, &records); err != nil {
		log.Printf("investimentos: fallback indisponível: %v", err)
		return nil
	}
	return records
}

// loadDataset tries the newest synced payload for a source, then the bundled
// JSON files.
func (l *DataLoader) loadDataset(sourceName string, fileNames []string, out interface{}) error {
	if l.datasetRepo != nil {
		payload, err := l.datasetRepo.LatestPayload(sourceName)
		if err == nil {
			if err := json.Unmarshal(payload, out); err == nil {
				return nil
			}
			log.Printf("%s: payload inválido, tentando fallback", sourceName)
		} else {
			log.Printf("%s: erro ao acessar o banco: %v", sourceName, err)
		}
	}
	return l.readFirstJSON(fileNames, out)
}

// readFirstJSON reads the first parseable file among dataDir and publicDir
// copies of the given names.
func (l *DataLoader) readFirstJSON(fileNames []string, out interface{}) error {
	var lastErr error
	for _, name := range fileNames {
		for _, dir := range []string{l.Config.DataDir, l.Config.PublicDir} {
			path := filepath.Join(dir, name)
			raw, err := os.ReadFile(path)
			if err != nil {
				lastErr = err
				continue
			}
			if err := json.Unmarshal(raw, out); err != nil {
				log.Printf("erro ao ler JSON %s: %v", path, err)
				lastErr = err
				continue
			}
			return nil
		}
	}
	if lastErr == nil {
		lastErr = errors.New("no fallback files configured")
	}
	return lastErr
}

// GroupVotes converts vote rows into the per-city wire shape, sorted
// ascending by year.
func GroupVotes(rows []models.Vote) map[string][]models.VoteEntry {
	out := make(map[string][]models.VoteEntry)
	for _, row := range rows {
		out[row.CityID] = append(out[row.CityID], models.VoteEntry{Ano: row.Year, Votos: row.Votes})
	}
	for slug := range out {
		entries := out[slug]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Ano < entries[j].Ano })
		out[slug] = entries
	}
	return out
}

// InvestmentRecords converts persisted rows into the wire shape.
func InvestmentRecords(rows []models.Investment) []models.InvestmentRecord {
	out := make([]models.InvestmentRecord, 0, len(rows))
	for _, row := range rows {
		record := models.InvestmentRecord{
			ID:       row.ID.String(),
			CityID:   row.CityID,
			CityName: row.CityName,
			Ano:      row.Year,
			Valor:    row.Value,
		}
		if row.Area != nil {
			record.Area = *row.Area
		}
		if row.Type != nil {
			record.Tipo = *row.Type
		}
		if row.Description != nil {
			record.Descricao = *row.Description
		}
		out = append(out, record)
	}
	return out
}
