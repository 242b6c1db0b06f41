package models

// Investment is one itemized public investment row.
type Investment struct {
	Model
	CityID      string  `json:"city_id" gorm:"index;not null"`
	CityName    string  `json:"city_name"`
	Year        int     `json:"year" gorm:"not null"`
	Value       float64 `json:"value" gorm:"not null"`
	Area        *string `json:"area"`
	Type        *string `json:"type"`
	Description *string `json:"description"`
}

// InvestmentRecord is the wire shape used by the map client and the import
// flow (Portuguese field names kept for compatibility).
type InvestmentRecord struct {
	ID        string  `json:"id,omitempty"`
	CityID    string  `json:"cityId"`
	CityName  string  `json:"cityName"`
	Ano       int     `json:"ano"`
	Valor     float64 `json:"valor"`
	Area      string  `json:"area,omitempty"`
	Tipo      string  `json:"tipo,omitempty"`
	Descricao string  `json:"descricao,omitempty"`
}
