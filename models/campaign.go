package models

// CampaignAggregate is the persisted per-city campaign summary. It is always a
// sum over Vote and Investment rows and is reset whenever either collection is
// replaced.
type CampaignAggregate struct {
	Model
	CityID string  `json:"city_id" gorm:"uniqueIndex;not null"`
	Votes  int     `json:"votes"`
	Money  float64 `json:"money"`
}

// CampaignTotals is the wire shape keyed by city slug.
type CampaignTotals struct {
	Votes int     `json:"votes"`
	Money float64 `json:"money"`
}

// CampaignBulkItem is one entry of the bulk aggregate upsert payload.
type CampaignBulkItem struct {
	CitySlug string  `json:"city_slug" binding:"required"`
	Votes    int     `json:"votes"`
	Money    float64 `json:"money"`
}
