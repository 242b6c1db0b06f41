package models

// ElectorateProfile is one entry of the TSE dataset payload, keyed by
// normalized city key. Read-only from the application's perspective; bracket
// percentages come from the scraper and are not recomputed here.
type ElectorateProfile struct {
	TotalEleitores FlexInt                         `json:"total_eleitores"`
	Genero         map[string]FlexFloat            `json:"genero,omitempty"`
	FaixaEtaria    map[string]map[string]FlexFloat `json:"faixa_etaria,omitempty"`
	GrauInstrucao  map[string]FlexFloat            `json:"grau_instrucao,omitempty"`
	EstadoCivil    map[string]FlexFloat            `json:"estado_civil,omitempty"`
}
