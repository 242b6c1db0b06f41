package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparana/eparana/models"
)

func filterTestSession() *Session {
	session := NewSession()
	session.ReplaceCities(map[string]*models.City{
		"curitiba": {Nome: "Curitiba", Habitantes: 1963726},
		"londrina": {Nome: "Londrina", Habitantes: 575377},
		"nota_1":   {Nome: "Nota: dados sujeitos a revisão"},
	})
	session.ReplaceElectorate(map[string]*models.ElectorateProfile{
		"curitiba": {TotalEleitores: 1400000},
		"londrina": {TotalEleitores: 390000},
	})
	session.ReplaceVotes(map[string][]models.VoteEntry{
		"curitiba": {{Ano: 2020, Votos: 10000}, {Ano: 2024, Votos: 20000}},
		"londrina": {{Ano: 2020, Votos: 5000}},
	})
	session.ReplaceInvestments([]models.InvestmentRecord{
		{CityID: "curitiba", CityName: "Curitiba", Ano: 2022, Valor: 4000, Area: "Saúde", Tipo: "Emenda"},
		{CityID: "curitiba", CityName: "Curitiba", Ano: 2023, Valor: 6000, Area: "Educação", Tipo: "Convênio"},
		{CityID: "londrina", CityName: "Londrina", Ano: 2022, Valor: 3000, Area: "Saúde", Tipo: "Convênio"},
	})
	return session
}

func TestApplyVotesOverwritesOnlyVotes(t *testing.T) {
	session := filterTestSession()
	session.ReplaceCampaign(map[string]models.CampaignTotals{
		"curitiba": {Votes: 1, Money: 8000},
	})

	svc := NewFilterService()
	_, err := svc.SetSource(session, SourceVotes)
	require.NoError(t, err)

	assert.Equal(t, models.CampaignTotals{Votes: 30000, Money: 8000}, session.Totals("curitiba"))
	assert.Equal(t, models.CampaignTotals{Votes: 5000, Money: 0}, session.Totals("londrina"))
}

func TestApplyVotesYearFilter(t *testing.T) {
	session := filterTestSession()
	svc := NewFilterService()
	_, err := svc.SetSource(session, SourceVotes)
	require.NoError(t, err)

	svc.SetFilters(session, ActiveFilters{Ano: "2020"})

	assert.Equal(t, 10000, session.Totals("curitiba").Votes)
	assert.Equal(t, 5000, session.Totals("londrina").Votes)
}

func TestApplyMoneyZeroesThenRebuilds(t *testing.T) {
	session := filterTestSession()
	session.ReplaceCampaign(map[string]models.CampaignTotals{
		"curitiba": {Votes: 30000, Money: 999999},
		"londrina": {Votes: 5000, Money: 123},
	})

	svc := NewFilterService()
	svc.SetFilters(session, ActiveFilters{Ano: "all", Area: "Saúde", Tipo: "all"})

	// Only Saúde investments survive the filter; votes are preserved.
	assert.Equal(t, models.CampaignTotals{Votes: 30000, Money: 4000}, session.Totals("curitiba"))
	assert.Equal(t, models.CampaignTotals{Votes: 5000, Money: 3000}, session.Totals("londrina"))
}

func TestSwitchingToVotesResetsAreaAndTipo(t *testing.T) {
	session := filterTestSession()
	svc := NewFilterService()
	svc.SetFilters(session, ActiveFilters{Ano: "2022", Area: "Saúde", Tipo: "Emenda"})

	state, err := svc.SetSource(session, SourceVotes)
	require.NoError(t, err)

	assert.Equal(t, SourceVotes, state.Source)
	assert.Equal(t, "2022", state.Filters.Ano)
	assert.Equal(t, "all", state.Filters.Area)
	assert.Equal(t, "all", state.Filters.Tipo)

	// The recompute is immediate: 2022 has no votes in either city.
	assert.Equal(t, 0, session.Totals("curitiba").Votes)
}

func TestSetSourceInvalid(t *testing.T) {
	svc := NewFilterService()
	_, err := svc.SetSource(NewSession(), "bolsonaro")
	assert.Error(t, err)
}

func TestResetRestoresDefaults(t *testing.T) {
	session := filterTestSession()
	svc := NewFilterService()
	svc.SetFilters(session, ActiveFilters{Ano: "2022", Area: "Saúde", Tipo: "Emenda"})

	state := svc.Reset(session)
	assert.Equal(t, SourceInvestments, state.Source)
	assert.Equal(t, ActiveFilters{Ano: "all", Area: "all", Tipo: "all"}, state.Filters)
	assert.Equal(t, 10000.0, session.Totals("curitiba").Money)
}

func TestOptions(t *testing.T) {
	session := filterTestSession()
	svc := NewFilterService()

	inv := svc.Options(session, SourceInvestments)
	assert.Equal(t, []int{2023, 2022}, inv.Anos)
	assert.Equal(t, []string{"Educação", "Saúde"}, inv.Areas)
	assert.Equal(t, []string{"Convênio", "Emenda"}, inv.Tipos)

	votes := svc.Options(session, SourceVotes)
	assert.Equal(t, []int{2024, 2020}, votes.Anos)
	assert.Empty(t, votes.Areas)
	assert.Empty(t, votes.Tipos)
}

func TestDashboardMetrics(t *testing.T) {
	session := filterTestSession()
	svc := NewFilterService()

	m := svc.Dashboard(session, DashboardFilters{})
	assert.InDelta(t, 13000, m.TotalInvested, 1e-9)
	assert.Equal(t, 3, m.InvestmentCount)
	assert.Equal(t, 2, m.CityCount)
	assert.InDelta(t, 13000.0/3, m.AverageInvestment, 1e-9)
	assert.Equal(t, 35000, m.TotalVotes)
	assert.Equal(t, 1790000, m.TotalElectorate)

	require.NotNil(t, m.CostPerVote)
	assert.InDelta(t, 13000.0/35000, *m.CostPerVote, 1e-9)
	require.NotNil(t, m.Efficiency)
	assert.InDelta(t, 35000/13000.0, *m.Efficiency, 1e-9)
	require.NotNil(t, m.InvestmentPerElec)
	require.NotNil(t, m.Participation)

	assert.InDelta(t, 7000, m.ByYear[2022], 1e-9)
	assert.InDelta(t, 6000, m.ByYear[2023], 1e-9)
	assert.InDelta(t, 7000, m.ByArea["Saúde"], 1e-9)
	assert.InDelta(t, 9000, m.ByType["Convênio"], 1e-9)
}

func TestDashboardUnavailableRatios(t *testing.T) {
	session := NewSession()
	svc := NewFilterService()

	m := svc.Dashboard(session, DashboardFilters{})
	assert.Nil(t, m.CostPerVote)
	assert.Nil(t, m.Efficiency)
	assert.Nil(t, m.InvestmentPerElec)
	assert.Nil(t, m.Participation)
}

func TestDashboardCityFilter(t *testing.T) {
	session := filterTestSession()
	svc := NewFilterService()

	m := svc.Dashboard(session, DashboardFilters{Cidade: "londrina"})
	assert.InDelta(t, 3000, m.TotalInvested, 1e-9)
	assert.Equal(t, 1, m.InvestmentCount)
	assert.Equal(t, 5000, m.TotalVotes)
	assert.Equal(t, 390000, m.TotalElectorate)
}

func TestSummaryRows(t *testing.T) {
	session := filterTestSession()
	session.ReplaceCampaign(map[string]models.CampaignTotals{
		"curitiba": {Votes: 30000, Money: 10000},
		"londrina": {Votes: 5000, Money: 3000},
	})

	rows := NewFilterService().Summary(session)

	// Junk rows filtered, votes descending.
	require.Len(t, rows, 2)
	assert.Equal(t, "Curitiba", rows[0].Name)
	assert.Equal(t, "Londrina", rows[1].Name)

	assert.InDelta(t, 30000.0/1400000*100, rows[0].Conversion, 1e-9)
	assert.InDelta(t, 10000.0/30000, rows[0].CostVote, 1e-9)
	assert.InDelta(t, 10000.0/1963726, rows[0].CostPop, 1e-9)
	assert.InDelta(t, 30000.0/35000*100, rows[0].Share, 1e-9)
}
