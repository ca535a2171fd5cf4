package database

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/logger"
)

// defaultAchievements is the built-in catalog.
func defaultAchievements() []models.Achievement {
	return []models.Achievement{
		// 金币成就
		{ID: "first_hundred", Name: "小富即安", Description: "拥有100金币", Category: models.AchievementCategoryCoins, ConditionType: models.ConditionCurrentCoins, ConditionValue: 100, RewardCoins: 50, RewardTitle: "小康"},
		{ID: "first_thousand", Name: "财源广进", Description: "拥有1000金币", Category: models.AchievementCategoryCoins, ConditionType: models.ConditionCurrentCoins, ConditionValue: 1000, RewardCoins: 200, RewardTitle: "富足"},
		{ID: "first_ten_thousand", Name: "财富自由", Description: "拥有10000金币", Category: models.AchievementCategoryCoins, ConditionType: models.ConditionCurrentCoins, ConditionValue: 10000, RewardCoins: 1000, RewardTitle: "富豪"},
		{ID: "millionaire", Name: "百万富翁", Description: "拥有100万金币", Category: models.AchievementCategoryCoins, ConditionType: models.ConditionCurrentCoins, ConditionValue: 1000000, RewardCoins: 50000, RewardTitle: "百万富翁"},
		{ID: "earn_thousand", Name: "积少成多", Description: "累计获得1000金币", Category: models.AchievementCategoryCoins, ConditionType: models.ConditionTotalEarned, ConditionValue: 1000, RewardCoins: 100},
		{ID: "earn_hundred_thousand", Name: "财富积累", Description: "累计获得10万金币", Category: models.AchievementCategoryCoins, ConditionType: models.ConditionTotalEarned, ConditionValue: 100000, RewardCoins: 5000},
		{ID: "single_gain_1000", Name: "一夜暴富", Description: "单次获得1000金币", Category: models.AchievementCategoryCoins, ConditionType: models.ConditionSingleGain, ConditionValue: 1000, RewardCoins: 500},

		// 签到成就
		{ID: "check_in_7", Name: "每日一签", Description: "连续签到7天", Category: models.AchievementCategoryCheckIn, ConditionType: models.ConditionConsecutiveDays, ConditionValue: 7, RewardCoins: 300, RewardTitle: "守时"},
		{ID: "check_in_30", Name: "守约之人", Description: "连续签到30天", Category: models.AchievementCategoryCheckIn, ConditionType: models.ConditionConsecutiveDays, ConditionValue: 30, RewardCoins: 1500, RewardTitle: "守约之人"},
		{ID: "check_in_100", Name: "坚持不懈", Description: "连续签到100天", Category: models.AchievementCategoryCheckIn, ConditionType: models.ConditionConsecutiveDays, ConditionValue: 100, RewardCoins: 8000, RewardTitle: "坚持不懈"},
		{ID: "check_in_365", Name: "签到达人", Description: "连续签到365天", Category: models.AchievementCategoryCheckIn, ConditionType: models.ConditionConsecutiveDays, ConditionValue: 365, RewardCoins: 50000, RewardTitle: "签到达人"},
		{ID: "total_check_in_50", Name: "签到爱好者", Description: "累计签到50次", Category: models.AchievementCategoryCheckIn, ConditionType: models.ConditionTotalCheckIns, ConditionValue: 50, RewardCoins: 1000},
		{ID: "total_check_in_200", Name: "打卡专家", Description: "累计签到200次", Category: models.AchievementCategoryCheckIn, ConditionType: models.ConditionTotalCheckIns, ConditionValue: 200, RewardCoins: 5000},

		// 等级成就
		{ID: "level_5", Name: "初出茅庐", Description: "达到5级", Category: models.AchievementCategoryLevel, ConditionType: models.ConditionLevel, ConditionValue: 5, RewardCoins: 200},
		{ID: "level_10", Name: "小有成就", Description: "达到10级", Category: models.AchievementCategoryLevel, ConditionType: models.ConditionLevel, ConditionValue: 10, RewardCoins: 500, RewardTitle: "小有成就"},
		{ID: "level_20", Name: "经验丰富", Description: "达到20级", Category: models.AchievementCategoryLevel, ConditionType: models.ConditionLevel, ConditionValue: 20, RewardCoins: 1500, RewardTitle: "老手"},
		{ID: "level_50", Name: "资深玩家", Description: "达到50级", Category: models.AchievementCategoryLevel, ConditionType: models.ConditionLevel, ConditionValue: 50, RewardCoins: 10000, RewardTitle: "资深玩家"},

		// 游戏成就
		{ID: "roulette_first_win", Name: "初战告捷", Description: "俄罗斯轮盘首次获胜", Category: models.AchievementCategoryGame, ConditionType: models.ConditionRouletteWin, ConditionValue: 1, RewardCoins: 100},
		{ID: "roulette_win_10", Name: "幸运之星", Description: "俄罗斯轮盘获胜10次", Category: models.AchievementCategoryGame, ConditionType: models.ConditionRouletteWin, ConditionValue: 10, RewardCoins: 500, RewardTitle: "幸运儿"},
		{ID: "roulette_survivor", Name: "死里逃生", Description: "俄罗斯轮盘生存100次", Category: models.AchievementCategoryGame, ConditionType: models.ConditionRouletteSurvive, ConditionValue: 100, RewardCoins: 2000, RewardTitle: "幸存者"},
	}
}

// SeedAchievements upserts the built-in catalog. Keyed on id, so
// re-seeding never duplicates and definition fixes or new entries land on
// upgrade. created_at and any user grants are untouched.
func SeedAchievements(db *gorm.DB) error {
	logger.Info("Seeding achievement catalog...")

	catalog := defaultAchievements()
	for i := range catalog {
		err := db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "category",
				"condition_type", "condition_value",
				"reward_coins", "reward_title", "is_hidden",
			}),
		}).Create(&catalog[i]).Error
		if err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", catalog[i].ID, err)
		}
	}

	logger.Info("Achievement catalog seeded", "count", len(catalog))
	return nil
}
