package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// FlexInt tolerates both JSON numbers and scraped strings such as "1.963.726".
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	v, err := strconv.Atoi(s)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(v)
	return nil
}

// FlexFloat tolerates JSON numbers and stringified numbers ("0.742", "12.34").
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexFloat(v)
	return nil
}

// City mirrors one entry of the IBGE dataset payload, keyed by city slug. The
// authoritative copy lives in the latest dataset record; cities are never a
// table of their own.
type City struct {
	Nome         string    `json:"nome"`
	Descricao    string    `json:"descricao,omitempty"`
	Habitantes   FlexInt   `json:"habitantes,omitempty"`
	AreaKm2      FlexFloat `json:"area_km2,omitempty"`
	Densidade    FlexFloat `json:"densidade,omitempty"`
	PibPerCapita FlexFloat `json:"pib_per_capita,omitempty"`
	IDHM         FlexFloat `json:"idhm,omitempty"`
	Economia     string    `json:"economia,omitempty"`
	Partido      string    `json:"partido,omitempty"`
	Prefeito     string    `json:"prefeito,omitempty"`
	VicePrefeito string    `json:"vice_prefeito,omitempty"`
	Aniversario  string    `json:"aniversario,omitempty"`
	Gentilico    string    `json:"gentilico,omitempty"`
}

// MetricValue returns the raw value of a heatmap metric for this city.
func (c *City) MetricValue(metric string) float64 {
	switch metric {
	case "habitantes":
		return float64(c.Habitantes)
	case "pib_per_capita":
		return float64(c.PibPerCapita)
	case "idhm":
		return float64(c.IDHM)
	case "densidade":
		return float64(c.Densidade)
	default:
		return 0
	}
}
