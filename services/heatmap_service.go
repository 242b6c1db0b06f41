package services

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// PartyColors is the display palette for party mode. Parties outside the
// table fall back to "#ccc".
var PartyColors = map[string]string{
	"PSD":           "#F59E0B",
	"PP":            "#0EA5E9",
	"MDB":           "#16A34A",
	"PL":            "#172554",
	"União Brasil":  "#f6ff00",
	"PSB":           "#CA8A04",
	"Republicanos":  "#7C3AED",
	"PODE":          "#84CC16",
	"PRD":           "#475569",
	"NOVO":          "#EA580C",
	"CIDADANIA":     "#DB2777",
	"SOLIDARIEDADE": "#D97706",
	"PSDB":          "#0470c2",
	"PT":            "#DC2626",
	"PDT":           "#771515",
	"AVANTE":        "#7C3AED",
	"Podemos":       "#ed3a9c",
	"Outros":        "#94A3B8",
	"Não informado": "#CBD5E1",
}

const zeroColor = "#e5e7eb"

// Visualization modes accepted by the colors endpoint.
const (
	ModeNone     = "none"
	ModeParty    = "party"
	ModePop      = "heatmap-pop"
	ModePib      = "heatmap-pib"
	ModeIDHM     = "heatmap-idhm"
	ModeDensity  = "heatmap-densidade"
	ModeCampaign = "campaign-data"
	ModeVotes    = "heatmap-votes"
	ModeMoney    = "heatmap-money"
)

// HeatmapService turns a session's current values into a slug→color map.
// Demographic metrics scale by rank so the gradient stays spread even under
// Curitiba-sized outliers; campaign values scale linearly.
type HeatmapService interface {
	Colors(session *Session, mode, source string) (map[string]string, error)
}

type heatmapService struct{}

func NewHeatmapService() HeatmapService {
	return &heatmapService{}
}

func (h *heatmapService) Colors(session *Session, mode, source string) (map[string]string, error) {
	switch mode {
	case ModeNone, "":
		return map[string]string{}, nil
	case ModeParty:
		return h.partyColors(session), nil
	case ModePop:
		return h.rankColors(session, "habitantes"), nil
	case ModePib:
		return h.rankColors(session, "pib_per_capita"), nil
	case ModeIDHM:
		return h.linearMetricColors(session, "idhm"), nil
	case ModeDensity:
		return h.linearMetricColors(session, "densidade"), nil
	case ModeCampaign, ModeVotes, ModeMoney:
		field := "money"
		if mode == ModeVotes || (mode == ModeCampaign && source == "votes") {
			field = "votes"
		}
		return h.campaignColors(session, field), nil
	default:
		return nil, fmt.Errorf("modo de visualização inválido: %q", mode)
	}
}

func (h *heatmapService) partyColors(session *Session) map[string]string {
	cities := session.Cities()
	out := make(map[string]string, len(cities))
	for slug, city := range cities {
		color, ok := PartyColors[city.Partido]
		if !ok {
			color = "#ccc"
		}
		out[slug] = color
	}
	return out
}

// rankColors positions each value by its rank among the positive values of
// the metric, so the ratio is rank/(n-1) regardless of the value spread.
func (h *heatmapService) rankColors(session *Session, metric string) map[string]string {
	cities := session.Cities()
	sorted := session.SortedMetricValues(metric)
	denom := math.Max(float64(len(sorted)-1), 1)

	out := make(map[string]string, len(cities))
	for slug, city := range cities {
		val := city.MetricValue(metric)
		if val == 0 {
			out[slug] = zeroColor
			continue
		}
		rank := sort.SearchFloat64s(sorted, val)
		out[slug] = GradientColor(float64(rank) / denom)
	}
	return out
}

func (h *heatmapService) linearMetricColors(session *Session, metric string) map[string]string {
	cities := session.Cities()
	values := make(map[string]float64, len(cities))
	for slug, city := range cities {
		values[slug] = city.MetricValue(metric)
	}
	return linearColors(values)
}

func (h *heatmapService) campaignColors(session *Session, field string) map[string]string {
	cities := session.Cities()
	campaign := session.Campaign()

	values := make(map[string]float64, len(cities))
	for slug := range cities {
		totals := campaign[slug]
		if field == "votes" {
			values[slug] = float64(totals.Votes)
		} else {
			values[slug] = totals.Money
		}
	}
	return linearColors(values)
}

// linearColors scales by min-max over every value, zeros included. Equal
// min and max would divide by zero, so max gets nudged up by one.
func linearColors(values map[string]float64) map[string]string {
	minVal := math.Inf(1)
	maxVal := math.Inf(-1)
	for _, v := range values {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if minVal == maxVal {
		maxVal = minVal + 1
	}

	out := make(map[string]string, len(values))
	for slug, v := range values {
		if v == 0 {
			out[slug] = zeroColor
			continue
		}
		out[slug] = GradientColor((v - minVal) / (maxVal - minVal))
	}
	return out
}

type gradientStop struct {
	upTo float64
	span float64
	from string
	to   string
}

// Purple through dark red, a turbo-like spectrum for contrast.
var gradientStops = []gradientStop{
	{0.14, 0.14, "#4c1d95", "#3b82f6"},
	{0.28, 0.14, "#3b82f6", "#06b6d4"},
	{0.42, 0.14, "#06b6d4", "#22c55e"},
	{0.57, 0.15, "#22c55e", "#eab308"},
	{0.71, 0.14, "#eab308", "#f97316"},
	{0.85, 0.14, "#f97316", "#dc2626"},
}

// GradientColor maps a position in [0,1] onto the heat gradient.
func GradientColor(t float64) string {
	for _, stop := range gradientStops {
		if t < stop.upTo {
			return interpolateColor(stop.from, stop.to, (t-(stop.upTo-stop.span))/stop.span)
		}
	}
	return interpolateColor("#dc2626", "#7f1d1d", (t-0.85)/0.15)
}

func interpolateColor(c1, c2 string, factor float64) string {
	r1, g1, b1 := parseHex(c1)
	r2, g2, b2 := parseHex(c2)
	r := int(math.Round(r1 + factor*(r2-r1)))
	g := int(math.Round(g1 + factor*(g2-g1)))
	b := int(math.Round(b1 + factor*(b2-b1)))
	return fmt.Sprintf("rgb(%d,%d,%d)", r, g, b)
}

func parseHex(c string) (float64, float64, float64) {
	r, _ := strconv.ParseInt(c[1:3], 16, 0)
	g, _ := strconv.ParseInt(c[3:5], 16, 0)
	b, _ := strconv.ParseInt(c[5:7], 16, 0)
	return float64(r), float64(g), float64(b)
}
