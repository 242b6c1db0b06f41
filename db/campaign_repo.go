package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eparana/eparana/models"
)

type CampaignRepository interface {
	GetAggregates() (map[string]models.CampaignTotals, error)
	BulkUpsert(items []models.CampaignBulkItem) error
}

type campaignRepo struct {
	DB *gorm.DB
}

func NewCampaignRepo(db *GormDB) CampaignRepository {
	return &campaignRepo{db.DB}
}

// GetAggregates returns the stored per-city totals when present, otherwise
// recomputes them by grouping the vote and investment collections.
func (r *campaignRepo) GetAggregates() (map[string]models.CampaignTotals, error) {
	var aggregates []models.CampaignAggregate
	if err := r.DB.Find(&aggregates).Error; err != nil {
		return nil, errors.Wrap(err, "list aggregates")
	}

	out := make(map[string]models.CampaignTotals)
	if len(aggregates) > 0 {
		for _, row := range aggregates {
			out[row.CityID] = models.CampaignTotals{Votes: row.Votes, Money: row.Money}
		}
		return out, nil
	}

	type voteSum struct {
		CityID string
		Total  int
	}
	var votes []voteSum
	err := r.DB.Model(&models.Vote{}).
		Select("city_id, COALESCE(SUM(votes), 0) AS total").
		Group("city_id").
		Scan(&votes).Error
	if err != nil {
		return nil, errors.Wrap(err, "sum votes")
	}

	type moneySum struct {
		CityID string
		Total  float64
	}
	var money []moneySum
	err = r.DB.Model(&models.Investment{}).
		Select("city_id, COALESCE(SUM(value), 0) AS total").
		Group("city_id").
		Scan(&money).Error
	if err != nil {
		return nil, errors.Wrap(err, "sum investments")
	}

	for _, row := range votes {
		out[row.CityID] = models.CampaignTotals{Votes: row.Total}
	}
	for _, row := range money {
		totals := out[row.CityID]
		totals.Money = row.Total
		out[row.CityID] = totals
	}
	return out, nil
}

func (r *campaignRepo) BulkUpsert(items []models.CampaignBulkItem) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]models.CampaignAggregate, 0, len(items))
	for _, item := range items {
		rows = append(rows, models.CampaignAggregate{
			CityID: item.CitySlug,
			Votes:  item.Votes,
			Money:  item.Money,
		})
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "city_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"votes", "money", "updated_at"}),
	}).Create(&rows).Error
	return errors.Wrap(err, "bulk upsert aggregates")
}
