package db

import (
	"encoding/json"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/eparana/eparana/models"
)

// DatasetRepository reads the snapshots the scraper service writes; this API
// never creates records itself.
type DatasetRepository interface {
	LatestPayload(sourceName string) (json.RawMessage, error)
	RecentRecords(limit int) ([]models.DatasetRecord, error)
}

type datasetRepo struct {
	DB *gorm.DB
}

func NewDatasetRepo(db *GormDB) DatasetRepository {
	return &datasetRepo{db.DB}
}

// LatestPayload returns the newest synced payload for a source, or
// gorm.ErrRecordNotFound when the source has never been synced.
func (d *datasetRepo) LatestPayload(sourceName string) (json.RawMessage, error) {
	var source models.DatasetSource
	if err := d.DB.Where("name = ?", sourceName).First(&source).Error; err != nil {
		return nil, errors.Wrapf(err, "dataset source %q", sourceName)
	}

	var record models.DatasetRecord
	err := d.DB.Where("source_id = ?", source.ID).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, errors.Wrapf(err, "latest record for %q", sourceName)
	}
	return record.PayloadJSON, nil
}

func (d *datasetRepo) RecentRecords(limit int) ([]models.DatasetRecord, error) {
	var records []models.DatasetRecord
	err := d.DB.Preload("Source").
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, errors.Wrap(err, "recent dataset records")
	}
	return records, nil
}
