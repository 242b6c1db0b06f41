package models

// SummaryRow is one line of the admin summary table and the Excel export.
type SummaryRow struct {
	CityID     string  `json:"city_id"`
	Name       string  `json:"name"`
	Votes      int     `json:"votes"`
	Money      float64 `json:"money"`
	Conversion float64 `json:"conversion"`
	CostVote   float64 `json:"cost_vote"`
	CostPop    float64 `json:"cost_pop"`
	Share      float64 `json:"share"`
}

// DashboardMetrics aggregates the analytics dashboard KPIs. Ratio fields are
// nil when their denominator is zero, which the client renders as
// "Indisponível".
type DashboardMetrics struct {
	TotalInvested     float64            `json:"total_invested"`
	InvestmentCount   int                `json:"investment_count"`
	CityCount         int                `json:"city_count"`
	AverageInvestment float64            `json:"average_investment"`
	TotalVotes        int                `json:"total_votes"`
	TotalElectorate   int                `json:"total_electorate"`
	CostPerVote       *float64           `json:"cost_per_vote"`
	Efficiency        *float64           `json:"efficiency"`
	InvestmentPerElec *float64           `json:"investment_per_elector"`
	Participation     *float64           `json:"participation"`
	ByYear            map[int]float64    `json:"by_year"`
	ByArea            map[string]float64 `json:"by_area"`
	ByType            map[string]float64 `json:"by_type"`
}
