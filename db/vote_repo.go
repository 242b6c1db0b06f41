package db

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/eparana/eparana/models"
)

type VoteRepository interface {
	ListVotes() ([]models.Vote, error)
	ReplaceVotes(rows []models.Vote) error
	DeleteAllVotes() error
}

type voteRepo struct {
	DB *gorm.DB
}

func NewVoteRepo(db *GormDB) VoteRepository {
	return &voteRepo{db.DB}
}

func (v *voteRepo) ListVotes() ([]models.Vote, error) {
	var rows []models.Vote
	if err := v.DB.Order("city_id, year").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "list votes")
	}
	return rows, nil
}

// ReplaceVotes swaps the whole collection and clears the campaign aggregates,
// which are recomputed lazily from the new rows.
func (v *voteRepo) ReplaceVotes(rows []models.Vote) error {
	return v.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Vote{}).Error; err != nil {
			return errors.Wrap(err, "clear votes")
		}
		if len(rows) > 0 {
			if err := tx.Create(&rows).Error; err != nil {
				return errors.Wrap(err, "insert votes")
			}
		}
		if err := tx.Where("1 = 1").Delete(&models.CampaignAggregate{}).Error; err != nil {
			return errors.Wrap(err, "reset aggregates")
		}
		return nil
	})
}

func (v *voteRepo) DeleteAllVotes() error {
	return v.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&models.Vote{}).Error; err != nil {
			return errors.Wrap(err, "delete votes")
		}
		if err := tx.Where("1 = 1").Delete(&models.CampaignAggregate{}).Error; err != nil {
			return errors.Wrap(err, "reset aggregates")
		}
		return nil
	})
}
