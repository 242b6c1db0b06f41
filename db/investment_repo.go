package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/eparana/eparana/models"
)

type InvestmentRepository interface {
	ListInvestments() ([]models.Investment, error)
	ReplaceInvestments(rows []models.Investment) error
	DeleteAllInvestments() error
}

type investmentRepo struct {
	DB *gorm.DB
}

func NewInvestmentRepo(db *GormDB) InvestmentRepository {
	return &investmentRepo{db.DB}
}

func (i *investmentRepo) ListInvestments() ([]models.Investment, error) {
	var rows []models.Investment
	if err := i.DB.Order("city_id, year").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list investments")
	}
	return rows, nil
}

// ReplaceInvestments swaps the whole collection (imports overwrite, they never
// append) and clears the campaign aggregates.
func (i *investmentRepo) ReplaceInvestments(rows []models.Investment) error {
	return i.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Investment{}).Error; err != nil {
			return errors.Wrap(err, "clear investments")
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return errors.Wrap(err, "insert investments")
			}
		}
		if err := tx.Where("1 = 1").Delete(&models.CampaignAggregate{}).Error; err != nil {
			return errors.Wrap(err, "reset aggregates")
		}
		return nil
	})
}

func (i *investmentRepo) DeleteAllInvestments() error {
	return i.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Investment{}).Error; err != nil {
			return errors.Wrap(err, "delete investments")
		}
		if err := tx.Where("1 = 1").Delete(&models.CampaignAggregate{}).Error; err != nil {
			return errors.Wrap(err, "reset aggregates")
		}
		return nil
	})
}
