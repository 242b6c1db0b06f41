package services

import (
	"hash/fnv"
	"math"
	"math/rand"
	"regexp"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/eparana/eparana/models"
	"github.com/eparana/eparana/services/utils"
)

// Parties eligible for the deterministic fallback assignment, in palette
// order. "Outros" and "Não informado" are display-only buckets and never
// assigned.
var Parties = []string{
	"PSD", "PP", "MDB", "PL", "União Brasil", "PSB", "Republicanos",
	"PODE", "PRD", "NOVO", "CIDADANIA", "SOLIDARIEDADE", "PSDB",
	"PT", "PDT", "AVANTE", "Podemos",
}

var pibPattern = regexp.MustCompile(`R\$\s*([\d.,]+)`)

// EnrichService fills the gaps the scrapers leave behind so every city renders
// with a complete profile. Present values are never overwritten; only the
// party assignment is deterministic, the numeric fills are sampled.
type EnrichService interface {
	Fill(session *Session, slugs []string)
}

type enrichService struct {
	rng   *rand.Rand
	title cases.Caser
}

func NewEnrichService() EnrichService {
	return &enrichService{
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		title: cases.Title(language.BrazilianPortuguese),
	}
}

// Fill completes every city named by slugs, creating a placeholder record for
// slugs the dataset does not know. A nil slug list enriches the cities already
// in the session.
func (e *enrichService) Fill(session *Session, slugs []string) {
	session.UpdateCities(func(cities map[string]*models.City) {
		if slugs == nil {
			slugs = make([]string, 0, len(cities))
			for slug := range cities {
				slugs = append(slugs, slug)
			}
		}
		for _, slug := range slugs {
			city, ok := cities[slug]
			if !ok {
				city = &models.City{
					Nome:      e.prettyName(slug),
					Descricao: "Município do estado do Paraná.",
				}
				cities[slug] = city
			}
			e.fillCity(slug, city)
		}
	})
}

func (e *enrichService) fillCity(slug string, city *models.City) {
	if city.Partido == "" || city.Partido == "Não informado" {
		city.Partido = PartyFor(slug)
	}

	if city.Habitantes == 0 {
		r := e.rng.Float64()
		var pop float64
		switch {
		case r > 0.98:
			// capital-scale outliers
			pop = 300000 + e.rng.Float64()*1500000
		case r > 0.90:
			pop = 50000 + e.rng.Float64()*250000
		default:
			pop = 2000 + e.rng.Float64()*48000
		}
		city.Habitantes = models.FlexInt(pop)
	}

	if city.AreaKm2 == 0 {
		city.AreaKm2 = models.FlexFloat(float64(e.rng.Intn(1500) + 100))
	}

	if city.Densidade == 0 {
		density := float64(city.Habitantes) / float64(city.AreaKm2)
		city.Densidade = models.FlexFloat(math.Round(density*100) / 100)
	}

	if city.PibPerCapita == 0 {
		if strings.Contains(city.Economia, "PIB per Capita") {
			if match := pibPattern.FindStringSubmatch(city.Economia); match != nil {
				city.PibPerCapita = models.FlexFloat(utils.ParseBrazilianNumber(match[1]))
			}
		}
		if city.PibPerCapita == 0 {
			base := 20000 + e.rng.Float64()*80000
			city.PibPerCapita = models.FlexFloat(math.Round(base*100) / 100)
		}
	}

	if city.IDHM == 0 {
		idhm := 0.65 + e.rng.Float64()*0.15
		city.IDHM = models.FlexFloat(math.Round(idhm*1000) / 1000)
	}

	if city.Gentilico == "" {
		city.Gentilico = "Não informado"
	}
	if city.Aniversario == "" {
		city.Aniversario = "Não informado"
	}
	if city.Prefeito == "" {
		city.Prefeito = "Prefeito não informado"
	}
	if city.VicePrefeito == "" {
		city.VicePrefeito = "Vice não informado"
	}
}

// PartyFor maps a city slug to a party, stable across restarts.
func PartyFor(slug string) string {
	h := fnv.New32a()
	h.Write([]byte(slug))
	return Parties[h.Sum32()%uint32(len(Parties))]
}

func (e *enrichService) prettyName(slug string) string {
	return e.title.String(strings.ReplaceAll(slug, "_", " "))
}
