package services

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	errs "github.com/eparana/eparana/errors"
	"github.com/eparana/eparana/models"
	"github.com/eparana/eparana/services/utils"
)

func errInvalidSource(source string) error {
	return errs.New("fonte de dados inválida: "+source, http.StatusBadRequest)
}

// Data sources the campaign overlay can be driven from.
const (
	SourceInvestments = "investments"
	SourceVotes       = "votes"
)

// ActiveFilters narrows the campaign overlay. "all" disables a dimension.
// Votes only carry a year, so area and tipo apply to investments alone.
type ActiveFilters struct {
	Ano  string `json:"ano"`
	Area string `json:"area"`
	Tipo string `json:"tipo"`
}

func defaultFilters() ActiveFilters {
	return ActiveFilters{Ano: "all", Area: "all", Tipo: "all"}
}

// DashboardFilters narrows the analytics dashboard. Independent from the
// map overlay filters.
type DashboardFilters struct {
	Cidade string `form:"cidade"`
	Ano    string `form:"ano"`
	Area   string `form:"area"`
	Tipo   string `form:"tipo"`
}

// FilterState is the overlay configuration reported to clients.
type FilterState struct {
	Source  string        `json:"source"`
	Filters ActiveFilters `json:"filters"`
}

// FilterOptions lists the distinct values available for each dimension.
type FilterOptions struct {
	Anos  []int    `json:"anos"`
	Areas []string `json:"areas"`
	Tipos []string `json:"tipos"`
}

// FilterService owns the active overlay source and filters and recomputes the
// campaign totals whenever either changes. Recomputing from votes touches only
// the votes side of each total; recomputing from investments rewrites every
// money value and leaves votes alone.
type FilterService interface {
	State() FilterState
	SetSource(session *Session, source string) (FilterState, error)
	SetFilters(session *Session, filters ActiveFilters) FilterState
	Reset(session *Session) FilterState
	Apply(session *Session)
	Options(session *Session, source string) FilterOptions
	Dashboard(session *Session, filters DashboardFilters) models.DashboardMetrics
	Summary(session *Session) []models.SummaryRow
}

type filterService struct {
	mu      sync.Mutex
	source  string
	filters ActiveFilters
}

func NewFilterService() FilterService {
	return &filterService{
		source:  SourceInvestments,
		filters: defaultFilters(),
	}
}

func (f *filterService) State() FilterState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return FilterState{Source: f.source, Filters: f.filters}
}

// SetSource switches the overlay between investments and votes. Votes have no
// area or tipo, so switching to votes resets those dimensions and reapplies
// at once so stale filters cannot keep acting on invisible data.
func (f *filterService) SetSource(session *Session, source string) (FilterState, error) {
	if source != SourceInvestments && source != SourceVotes {
		return FilterState{}, errInvalidSource(source)
	}
	f.mu.Lock()
	f.source = source
	if source == SourceVotes {
		f.filters.Area = "all"
		f.filters.Tipo = "all"
	}
	f.mu.Unlock()

	f.Apply(session)
	return f.State(), nil
}

func (f *filterService) SetFilters(session *Session, filters ActiveFilters) FilterState {
	if filters.Ano == "" {
		filters.Ano = "all"
	}
	if filters.Area == "" {
		filters.Area = "all"
	}
	if filters.Tipo == "" {
		filters.Tipo = "all"
	}
	f.mu.Lock()
	f.filters = filters
	f.mu.Unlock()

	f.Apply(session)
	return f.State()
}

func (f *filterService) Reset(session *Session) FilterState {
	f.mu.Lock()
	f.source = SourceInvestments
	f.filters = defaultFilters()
	f.mu.Unlock()

	f.Apply(session)
	return f.State()
}

// Apply recomputes the campaign totals for the active source under the
// current filters.
func (f *filterService) Apply(session *Session) {
	f.mu.Lock()
	source := f.source
	filters := f.filters
	f.mu.Unlock()

	if source == SourceVotes {
		votesByCity := make(map[string]int)
		for slug, entries := range session.Votes() {
			total := 0
			for _, entry := range entries {
				if filters.Ano == "all" || strconv.Itoa(entry.Ano) == filters.Ano {
					total += entry.Votos
				}
			}
			votesByCity[slug] = total
		}
		session.ApplyVotesField(votesByCity)
		return
	}

	moneyByCity := make(map[string]float64)
	for _, inv := range session.Investments() {
		if !matchesFilters(inv, filters) {
			continue
		}
		moneyByCity[inv.CityID] += inv.Valor
	}
	session.ApplyMoneyField(moneyByCity)
}

func matchesFilters(inv models.InvestmentRecord, filters ActiveFilters) bool {
	if filters.Ano != "all" && strconv.Itoa(inv.Ano) != filters.Ano {
		return false
	}
	if filters.Area != "all" && inv.Area != filters.Area {
		return false
	}
	if filters.Tipo != "all" && inv.Tipo != filters.Tipo {
		return false
	}
	return true
}

// Options collects the distinct filter values present in the given source.
// Years come back newest first, areas and tipos alphabetically.
func (f *filterService) Options(session *Session, source string) FilterOptions {
	anos := make(map[int]struct{})
	areas := make(map[string]struct{})
	tipos := make(map[string]struct{})

	if source == SourceVotes {
		for _, entries := range session.Votes() {
			for _, entry := range entries {
				if entry.Ano != 0 {
					anos[entry.Ano] = struct{}{}
				}
			}
		}
	} else {
		for _, inv := range session.Investments() {
			if inv.Ano != 0 {
				anos[inv.Ano] = struct{}{}
			}
			if inv.Area != "" {
				areas[inv.Area] = struct{}{}
			}
			if inv.Tipo != "" {
				tipos[inv.Tipo] = struct{}{}
			}
		}
	}

	out := FilterOptions{
		Anos:  make([]int, 0, len(anos)),
		Areas: make([]string, 0, len(areas)),
		Tipos: make([]string, 0, len(tipos)),
	}
	for ano := range anos {
		out.Anos = append(out.Anos, ano)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out.Anos)))
	for area := range areas {
		out.Areas = append(out.Areas, area)
	}
	sort.Strings(out.Areas)
	for tipo := range tipos {
		out.Tipos = append(out.Tipos, tipo)
	}
	sort.Strings(out.Tipos)
	return out
}

// Dashboard aggregates the filtered investments plus the vote and electorate
// totals of the cities they touch. Ratios whose denominator is zero come back
// nil so clients can render them as unavailable instead of as a fake zero.
func (f *filterService) Dashboard(session *Session, filters DashboardFilters) models.DashboardMetrics {
	if filters.Cidade == "" {
		filters.Cidade = "all"
	}
	if filters.Ano == "" {
		filters.Ano = "all"
	}
	if filters.Area == "" {
		filters.Area = "all"
	}
	if filters.Tipo == "" {
		filters.Tipo = "all"
	}

	filtered := make([]models.InvestmentRecord, 0)
	for _, inv := range session.Investments() {
		if filters.Cidade != "all" && inv.CityID != filters.Cidade {
			continue
		}
		if filters.Ano != "all" && strconv.Itoa(inv.Ano) != filters.Ano {
			continue
		}
		if filters.Area != "all" && inv.Area != filters.Area {
			continue
		}
		if filters.Tipo != "all" && inv.Tipo != filters.Tipo {
			continue
		}
		filtered = append(filtered, inv)
	}

	metrics := models.DashboardMetrics{
		InvestmentCount: len(filtered),
		ByYear:          make(map[int]float64),
		ByArea:          make(map[string]float64),
		ByType:          make(map[string]float64),
	}

	citySet := make(map[string]struct{})
	for _, inv := range filtered {
		metrics.TotalInvested += inv.Valor
		citySet[inv.CityID] = struct{}{}
		metrics.ByYear[inv.Ano] += inv.Valor
		if inv.Area != "" {
			metrics.ByArea[inv.Area] += inv.Valor
		}
		if inv.Tipo != "" {
			metrics.ByType[inv.Tipo] += inv.Valor
		}
	}
	metrics.CityCount = len(citySet)
	if metrics.InvestmentCount > 0 {
		metrics.AverageInvestment = metrics.TotalInvested / float64(metrics.InvestmentCount)
	}

	votes := session.Votes()
	relevant := make([]string, 0, len(citySet))
	if filters.Cidade != "all" {
		relevant = append(relevant, filters.Cidade)
	} else {
		for slug := range citySet {
			relevant = append(relevant, slug)
		}
		if len(relevant) == 0 {
			for slug := range votes {
				relevant = append(relevant, slug)
			}
		}
	}

	for _, slug := range relevant {
		for _, entry := range votes[slug] {
			if filters.Ano == "all" || strconv.Itoa(entry.Ano) == filters.Ano {
				metrics.TotalVotes += entry.Votos
			}
		}
		if profile, ok := session.Electorate(utils.NormalizeKey(slug)); ok {
			metrics.TotalElectorate += int(profile.TotalEleitores)
		}
	}

	if metrics.TotalVotes > 0 {
		cpv := 0.0
		if metrics.TotalInvested > 0 {
			cpv = metrics.TotalInvested / float64(metrics.TotalVotes)
		}
		metrics.CostPerVote = &cpv
		if metrics.TotalInvested > 0 {
			eff := float64(metrics.TotalVotes) / metrics.TotalInvested
			metrics.Efficiency = &eff
		}
	}
	if metrics.TotalElectorate > 0 {
		perElec := metrics.TotalInvested / float64(metrics.TotalElectorate)
		metrics.InvestmentPerElec = &perElec
		if metrics.TotalVotes > 0 {
			part := float64(metrics.TotalVotes) / float64(metrics.TotalElectorate) * 100
			metrics.Participation = &part
		}
	}
	return metrics
}

// Summary builds the per-city rundown behind the summary table and the Excel
// export, sorted by votes descending. Scraper leftovers masquerading as
// cities (footnotes, source lines) are filtered out by name.
func (f *filterService) Summary(session *Session) []models.SummaryRow {
	campaign := session.Campaign()

	globalVotes := 0
	for _, totals := range campaign {
		globalVotes += totals.Votes
	}

	rows := make([]models.SummaryRow, 0, len(session.Cities()))
	for slug, city := range session.Cities() {
		if isJunkName(city.Nome) {
			continue
		}
		totals := campaign[slug]
		row := models.SummaryRow{
			CityID: slug,
			Name:   city.Nome,
			Votes:  totals.Votes,
			Money:  totals.Money,
		}

		if profile, ok := session.Electorate(utils.NormalizeKey(slug)); ok && profile.TotalEleitores > 0 {
			row.Conversion = float64(row.Votes) / float64(profile.TotalEleitores) * 100
		}
		if row.Votes > 0 {
			row.CostVote = row.Money / float64(row.Votes)
		}
		if city.Habitantes > 0 {
			row.CostPop = row.Money / float64(city.Habitantes)
		}
		if globalVotes > 0 {
			row.Share = float64(row.Votes) / float64(globalVotes) * 100
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Votes != rows[j].Votes {
			return rows[i].Votes > rows[j].Votes
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

func isJunkName(name string) bool {
	if strings.Contains(name, "Nota") || strings.Contains(name, "Fonte") {
		return true
	}
	if len([]rune(name)) > 50 {
		return true
	}
	for _, prefix := range []string{"Escolariza", "Popula", "Área", "Densidade"} {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
