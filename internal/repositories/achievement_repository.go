package repositories

import (
	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	db *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{db: db}
}

// UpsertAchievement inserts or refreshes a catalog entry
func (r *AchievementRepository) UpsertAchievement(achievement *models.Achievement) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "category", "condition_type",
			"condition_value", "reward_coins", "reward_title", "icon", "is_hidden",
		}),
	}).Create(achievement)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to upsert achievement")
	}
	return nil
}

// GetAchievementByID retrieves one catalog entry
func (r *AchievementRepository) GetAchievementByID(id string) (*models.Achievement, error) {
	var achievement models.Achievement
	result := r.db.Where("id = ?", id).First(&achievement)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "achievement not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get achievement")
	}

	return &achievement, nil
}

// GetAllAchievements retrieves the whole catalog
func (r *AchievementRepository) GetAllAchievements() ([]models.Achievement, error) {
	var achievements []models.Achievement
	result := r.db.Order("category, id").Find(&achievements)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get achievements")
	}

	return achievements, nil
}

// GetAchievementsByCategory retrieves catalog entries of one category
func (r *AchievementRepository) GetAchievementsByCategory(category string) ([]models.Achievement, error) {
	var achievements []models.Achievement
	result := r.db.Where("category = ?", category).Order("id").Find(&achievements)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get achievements by category")
	}

	return achievements, nil
}

// CountAchievements returns the catalog size
func (r *AchievementRepository) CountAchievements() (int64, error) {
	var count int64
	result := r.db.Model(&models.Achievement{}).Count(&count)
	if result.Error != nil {
		return 0, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to count achievements")
	}
	return count, nil
}

// AwardAchievement grants an achievement to a user. Granting twice is
// reported as ALREADY_EXISTS and leaves the first grant untouched.
func (r *AchievementRepository) AwardAchievement(userAchievement *models.UserAchievement) error {
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(userAchievement)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to award achievement")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeAlreadyExists, "achievement already granted")
	}

	return nil
}

// HasAchievement checks whether the user already holds the achievement
func (r *AchievementRepository) HasAchievement(userID, achievementID string) (bool, error) {
	var count int64
	result := r.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count)

	if result.Error != nil {
		return false, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to check achievement")
	}

	return count > 0, nil
}

// GetUserAchievements retrieves everything the user has earned, newest first
func (r *AchievementRepository) GetUserAchievements(userID string) ([]models.UserAchievement, error) {
	var owned []models.UserAchievement
	result := r.db.Where("user_id = ?", userID).
		Order("achieved_at DESC").
		Find(&owned)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user achievements")
	}

	return owned, nil
}

// GetUnnotified retrieves earned achievements the user has not been told
// about yet
func (r *AchievementRepository) GetUnnotified(userID string) ([]models.UserAchievement, error) {
	var owned []models.UserAchievement
	result := r.db.Where("user_id = ? AND notified = ?", userID, false).
		Order("achieved_at").
		Find(&owned)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get unnotified achievements")
	}

	return owned, nil
}

// MarkNotified flags one earned achievement as announced
func (r *AchievementRepository) MarkNotified(userID, achievementID string) error {
	result := r.db.Model(&models.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Update("notified", true)

	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to mark achievement notified")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "user achievement not found")
	}

	return nil
}
