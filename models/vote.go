package models

// Vote is one imported (city, year) vote count.
type Vote struct {
	Model
	CityID string `json:"city_id" gorm:"index:idx_votes_city_year,unique;not null"`
	Year   int    `json:"year" gorm:"index:idx_votes_city_year,unique;not null"`
	Votes  int    `json:"votes" gorm:"not null"`
}

// VoteEntry is the wire shape consumed by the map client, grouped per city and
// sorted ascending by year.
type VoteEntry struct {
	Ano   int `json:"ano"`
	Votos int `json:"votos"`
}
