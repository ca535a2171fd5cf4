package models

import (
	"time"
)

// Achievement is one entry of the static catalog. ConditionType and
// ConditionValue describe when the achievement should be granted; the
// host decides when that happens.
type Achievement struct {
	ID             string    `gorm:"primaryKey;type:varchar(50)"`
	Name           string    `gorm:"type:varchar(100);not null"`
	Description    string    `gorm:"type:text"`
	Category       string    `gorm:"type:varchar(50);index"`
	ConditionType  string    `gorm:"type:varchar(50);not null"`
	ConditionValue int64     `gorm:"default:0;not null"`
	RewardCoins    int64     `gorm:"default:0;not null"`
	RewardTitle    string    `gorm:"type:varchar(50)"`
	Icon           string    `gorm:"type:varchar(50)"`
	IsHidden       bool      `gorm:"default:false;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// Achievement categories as shipped in the catalog (user-facing labels).
const (
	AchievementCategoryCoins   = "金币"
	AchievementCategoryCheckIn = "签到"
	AchievementCategoryLevel   = "等级"
	AchievementCategoryGame    = "游戏"
)

// Achievement condition types.
const (
	ConditionCurrentCoins    = "current_coins"
	ConditionTotalEarned     = "total_earned"
	ConditionSingleGain      = "single_gain"
	ConditionConsecutiveDays = "consecutive_days"
	ConditionTotalCheckIns   = "total_check_ins"
	ConditionLevel           = "level"
	ConditionRouletteWin     = "roulette_win"
	ConditionRouletteSurvive = "roulette_survive"
)

func (Achievement) TableName() string {
	return "achievements"
}

// UserAchievement records one granted achievement. Notified marks whether
// the user has been told about it yet.
type UserAchievement struct {
	UserID        string    `gorm:"primaryKey;type:varchar(100)"`
	AchievementID string    `gorm:"primaryKey;type:varchar(50)"`
	AchievedAt    time.Time `gorm:"not null"`
	Notified      bool      `gorm:"default:false;not null"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}
