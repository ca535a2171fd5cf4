package repositories

import (
	"time"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CheckInRepository struct {
	db *gorm.DB
}

func NewCheckInRepository(db *gorm.DB) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// CreateRecord inserts a check-in row. The unique (user_id, check_in_date)
// index makes this race-safe: a second insert for the same day is skipped
// and reported as ALREADY_EXISTS.
func (r *CheckInRepository) CreateRecord(record *models.CheckInRecord) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "check_in_date"}},
		DoNothing: true,
	}).Create(record)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to create check-in record")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeAlreadyExists, "already checked in on this date")
	}

	return nil
}

// GetByUserAndDate retrieves the check-in record for one calendar day
func (r *CheckInRepository) GetByUserAndDate(userID string, date time.Time) (*models.CheckInRecord, error) {
	var record models.CheckInRecord
	result := r.db.Where("user_id = ? AND check_in_date = ?", userID, date.UTC().Format("2006-01-02")).
		First(&record)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "check-in record not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get check-in record")
	}

	return &record, nil
}

// GetUserRecords retrieves recent check-in records, newest first
func (r *CheckInRepository) GetUserRecords(userID string, limit int) ([]models.CheckInRecord, error) {
	var records []models.CheckInRecord
	result := r.db.Where("user_id = ?", userID).
		Order("check_in_date DESC").
		Limit(limit).
		Find(&records)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get check-in records")
	}

	return records, nil
}

// CountUserRecords returns how many days the user has checked in
func (r *CheckInRepository) CountUserRecords(userID string) (int64, error) {
	var count int64
	result := r.db.Model(&models.CheckInRecord{}).
		Where("user_id = ?", userID).
		Count(&count)

	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count check-in records")
	}

	return count, nil
}
