package repositories

import (
	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/errors"
	"gorm.io/gorm"
)

type GameRecordRepository struct {
	db *gorm.DB
}

func NewGameRecordRepository(db *gorm.DB) *GameRecordRepository {
	return &GameRecordRepository{db: db}
}

// CreateRecord appends one game outcome row
func (r *GameRecordRepository) CreateRecord(record *models.GameRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create game record")
	}
	return nil
}

// GetUserRecords retrieves recent game records, newest first. Empty
// gameType means all game types.
func (r *GameRecordRepository) GetUserRecords(userID, gameType string, limit int) ([]models.GameRecord, error) {
	var records []models.GameRecord
	query := r.db.Where("user_id = ?", userID)

	if gameType != "" {
		query = query.Where("game_type = ?", gameType)
	}

	result := query.Order("created_at DESC").Limit(limit).Find(&records)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get game records")
	}

	return records, nil
}

// GetUserStats aggregates the user's game records, optionally filtered to
// one game type.
func (r *GameRecordRepository) GetUserStats(userID, gameType string) (*models.GameStats, error) {
	var stats models.GameStats
	query := r.db.Model(&models.GameRecord{}).Where("user_id = ?", userID)

	if gameType != "" {
		query = query.Where("game_type = ?", gameType)
	}

	err := query.Select(`
		COUNT(*) AS total_games,
		COALESCE(SUM(CASE WHEN result = 'win' THEN 1 ELSE 0 END), 0) AS wins,
		COALESCE(SUM(CASE WHEN result = 'lose' THEN 1 ELSE 0 END), 0) AS losses,
		COALESCE(SUM(CASE WHEN result = 'draw' THEN 1 ELSE 0 END), 0) AS draws,
		COALESCE(SUM(coins_bet), 0) AS total_bet,
		COALESCE(SUM(coins_won), 0) AS total_won`).
		Scan(&stats).Error

	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get game stats")
	}

	return &stats, nil
}
