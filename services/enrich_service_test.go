package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eparana/eparana/models"
)

func TestFillCreatesPlaceholderCity(t *testing.T) {
	session := NewSession()
	NewEnrichService().Fill(session, []string{"cidade_nova"})

	city, ok := session.City("cidade_nova")
	require.True(t, ok)
	assert.Equal(t, "Cidade Nova", city.Nome)
	assert.Equal(t, "Município do estado do Paraná.", city.Descricao)
	assert.NotZero(t, city.Habitantes)
	assert.NotZero(t, city.AreaKm2)
	assert.NotZero(t, city.Densidade)
	assert.NotZero(t, city.PibPerCapita)
	assert.NotZero(t, city.IDHM)
	assert.Equal(t, "Não informado", city.Gentilico)
	assert.Equal(t, "Não informado", city.Aniversario)
	assert.Equal(t, "Prefeito não informado", city.Prefeito)
	assert.Equal(t, "Vice não informado", city.VicePrefeito)
	assert.Contains(t, Parties, city.Partido)
}

func TestFillNeverOverwritesPresentFields(t *testing.T) {
	session := NewSession()
	session.ReplaceCities(map[string]*models.City{
		"curitiba": {
			Nome:         "Curitiba",
			Habitantes:   1963726,
			AreaKm2:      435.04,
			Densidade:    4514.12,
			PibPerCapita: 52000,
			IDHM:         0.823,
			Partido:      "PSD",
			Prefeito:     "Fulano",
		},
	})

	NewEnrichService().Fill(session, nil)

	city, _ := session.City("curitiba")
	assert.Equal(t, models.FlexInt(1963726), city.Habitantes)
	assert.Equal(t, models.FlexFloat(435.04), city.AreaKm2)
	assert.Equal(t, models.FlexFloat(4514.12), city.Densidade)
	assert.Equal(t, models.FlexFloat(52000), city.PibPerCapita)
	assert.Equal(t, models.FlexFloat(0.823), city.IDHM)
	assert.Equal(t, "PSD", city.Partido)
	assert.Equal(t, "Fulano", city.Prefeito)
}

func TestFillIsIdempotent(t *testing.T) {
	session := NewSession()
	enricher := NewEnrichService()
	enricher.Fill(session, []string{"londrina"})

	first, _ := session.City("londrina")
	firstCopy := *first

	enricher.Fill(session, nil)
	second, _ := session.City("londrina")
	assert.Equal(t, firstCopy, *second)
}

func TestPartyForIsDeterministic(t *testing.T) {
	one := PartyFor("ponta_grossa")
	two := PartyFor("ponta_grossa")
	assert.Equal(t, one, two)
	assert.Contains(t, Parties, one)
}

func TestFillReplacesUnknownPartyPlaceholder(t *testing.T) {
	session := NewSession()
	session.ReplaceCities(map[string]*models.City{
		"cascavel": {Nome: "Cascavel", Partido: "Não informado"},
	})

	NewEnrichService().Fill(session, nil)

	city, _ := session.City("cascavel")
	assert.Equal(t, PartyFor("cascavel"), city.Partido)
}

func TestFillExtractsPibFromEconomia(t *testing.T) {
	session := NewSession()
	session.ReplaceCities(map[string]*models.City{
		"toledo": {
			Nome:     "Toledo",
			Economia: "PIB per Capita: R$ 45.000,00 (2021)",
		},
	})

	NewEnrichService().Fill(session, nil)

	city, _ := session.City("toledo")
	assert.Equal(t, models.FlexFloat(45000), city.PibPerCapita)
}

func TestFillDerivesDensity(t *testing.T) {
	session := NewSession()
	session.ReplaceCities(map[string]*models.City{
		"umuarama": {Nome: "Umuarama", Habitantes: 100000, AreaKm2: 500},
	})

	NewEnrichService().Fill(session, nil)

	city, _ := session.City("umuarama")
	assert.Equal(t, models.FlexFloat(200), city.Densidade)
}

func TestFillPopulationRange(t *testing.T) {
	session := NewSession()
	slugs := make([]string, 0, 50)
	for _, slug := range []string{
		"a", "b", "c", "d", "e", "f", "g", "h", "i", "j",
	} {
		slugs = append(slugs, "cidade_"+slug)
	}
	NewEnrichService().Fill(session, slugs)

	for _, slug := range slugs {
		city, _ := session.City(slug)
		pop := int(city.Habitantes)
		assert.GreaterOrEqual(t, pop, 2000, "slug %s", slug)
		assert.Less(t, pop, 1800000, "slug %s", slug)
		area := float64(city.AreaKm2)
		assert.GreaterOrEqual(t, area, 100.0)
		assert.Less(t, area, 1600.0)
		idhm := float64(city.IDHM)
		assert.GreaterOrEqual(t, idhm, 0.65)
		assert.LessOrEqual(t, idhm, 0.80)
	}
}
