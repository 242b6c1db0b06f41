package services

import (
	"sort"
	"sync"

	"github.com/eparana/eparana/models"
)

// Session holds the in-memory working copies of the four datasets the map is
// painted from. It replaces the page-global maps of the original client: every
// component receives the session explicitly instead of reaching for ambient
// state. The durable copy stays in the backing store; the session is hydrated
// by the Loader on boot and mutated by imports and filter changes.
//
// The original ran on a single-threaded event loop; here an RWMutex enforces
// the same single-writer discipline. Concurrent imports are last-write-wins,
// as in the original.
type Session struct {
	mu sync.RWMutex

	cities      map[string]*models.City
	electorate  map[string]*models.ElectorateProfile
	campaign    map[string]models.CampaignTotals
	votes       map[string][]models.VoteEntry
	investments []models.InvestmentRecord

	// version counts mutations; the sorted-value cache is keyed by
	// (metric, version) so a stale sort can never be served.
	version      uint64
	cacheMetric  string
	cacheVersion uint64
	cacheSorted  []float64
}

func NewSession() *Session {
	return &Session{
		cities:     make(map[string]*models.City),
		electorate: make(map[string]*models.ElectorateProfile),
		campaign:   make(map[string]models.CampaignTotals),
		votes:      make(map[string][]models.VoteEntry),
	}
}

func (s *Session) bumpLocked() {
	s.version++
}

func (s *Session) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Session) ReplaceCities(cities map[string]*models.City) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cities == nil {
		cities = make(map[string]*models.City)
	}
	s.cities = cities
	s.bumpLocked()
}

// UpdateCities runs fn over the live city map under the write lock. Used by
// the enrichment fill, which mutates cities in place.
func (s *Session) UpdateCities(fn func(cities map[string]*models.City)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cities)
	s.bumpLocked()
}

func (s *Session) Cities() map[string]*models.City {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.City, len(s.cities))
	for k, v := range s.cities {
		out[k] = v
	}
	return out
}

func (s *Session) City(id string) (*models.City, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cities[id]
	return c, ok
}

func (s *Session) ReplaceElectorate(profiles map[string]*models.ElectorateProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if profiles == nil {
		profiles = make(map[string]*models.ElectorateProfile)
	}
	s.electorate = profiles
	s.bumpLocked()
}

func (s *Session) ElectorateAll() map[string]*models.ElectorateProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*models.ElectorateProfile, len(s.electorate))
	for k, v := range s.electorate {
		out[k] = v
	}
	return out
}

func (s *Session) Electorate(key string) (*models.ElectorateProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.electorate[key]
	return p, ok
}

func (s *Session) ReplaceCampaign(totals map[string]models.CampaignTotals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if totals == nil {
		totals = make(map[string]models.CampaignTotals)
	}
	s.campaign = totals
	s.bumpLocked()
}

func (s *Session) Campaign() map[string]models.CampaignTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]models.CampaignTotals, len(s.campaign))
	for k, v := range s.campaign {
		out[k] = v
	}
	return out
}

// SetTotals overwrites both totals for one city, as the aggregate upsert
// endpoints do.
func (s *Session) SetTotals(id string, totals models.CampaignTotals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaign[id] = totals
	s.bumpLocked()
}

func (s *Session) Totals(id string) models.CampaignTotals {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.campaign[id]
}

// ApplyVotesField overwrites the votes side of the campaign totals for the
// given cities, leaving every money value untouched.
func (s *Session) ApplyVotesField(votesByCity map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slug, votes := range votesByCity {
		totals := s.campaign[slug]
		totals.Votes = votes
		s.campaign[slug] = totals
	}
	s.bumpLocked()
}

// ApplyMoneyField zeroes money for every city, then writes the recomputed
// sums. Votes values are preserved across the rewrite.
func (s *Session) ApplyMoneyField(moneyByCity map[string]float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for slug, totals := range s.campaign {
		totals.Money = 0
		s.campaign[slug] = totals
	}
	for slug, money := range moneyByCity {
		totals := s.campaign[slug]
		totals.Money = money
		s.campaign[slug] = totals
	}
	s.bumpLocked()
}

func (s *Session) ReplaceVotes(votes map[string][]models.VoteEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if votes == nil {
		votes = make(map[string][]models.VoteEntry)
	}
	s.votes = votes
	s.bumpLocked()
}

func (s *Session) Votes() map[string][]models.VoteEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]models.VoteEntry, len(s.votes))
	for k, v := range s.votes {
		entries := make([]models.VoteEntry, len(v))
		copy(entries, v)
		out[k] = entries
	}
	return out
}

func (s *Session) ReplaceInvestments(rows []models.InvestmentRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investments = rows
	s.bumpLocked()
}

func (s *Session) Investments() []models.InvestmentRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.InvestmentRecord, len(s.investments))
	copy(out, s.investments)
	return out
}

// SortedMetricValues returns the ascending positive values of a city metric,
// cached until the metric changes or any session mutation bumps the version.
func (s *Session) SortedMetricValues(metric string) []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cacheSorted != nil && s.cacheMetric == metric && s.cacheVersion == s.version {
		return s.cacheSorted
	}

	values := make([]float64, 0, len(s.cities))
	for _, city := range s.cities {
		if v := city.MetricValue(metric); v > 0 {
			values = append(values, v)
		}
	}
	sort.Float64s(values)

	s.cacheMetric = metric
	s.cacheVersion = s.version
	s.cacheSorted = values
	return values
}
