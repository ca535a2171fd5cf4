package services

import (
	"time"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/errors"
	"github.com/kidwild/coinarena/pkg/logger"
)

// OwnedAchievement pairs a catalog entry with when the user earned it.
type OwnedAchievement struct {
	Achievement models.Achievement
	AchievedAt  time.Time
}

// AwardResult reports one grant attempt. Granted is false when the user
// already held the achievement.
type AwardResult struct {
	Achievement models.Achievement
	Granted     bool
}

// AchievementService manages the catalog and explicit grants. Deciding
// when a condition is met is the host's job; it calls Award.
type AchievementService struct {
	achievements AchievementStore
	userSvc      *UserService
}

func NewAchievementService(achievements AchievementStore, userSvc *UserService) *AchievementService {
	return &AchievementService{achievements: achievements, userSvc: userSvc}
}

// Catalog returns every achievement definition.
func (s *AchievementService) Catalog() ([]models.Achievement, error) {
	return s.achievements.GetAllAchievements()
}

// CatalogByCategory returns the definitions of one category.
func (s *AchievementService) CatalogByCategory(category string) ([]models.Achievement, error) {
	if category == "" {
		return s.achievements.GetAllAchievements()
	}
	return s.achievements.GetAchievementsByCategory(category)
}

// Award grants an achievement to a user. The first grant credits the
// reward coins and applies the reward title; repeat grants are no-ops
// reported through Granted.
func (s *AchievementService) Award(userID, achievementID string) (*AwardResult, error) {
	if userID == "" {
		return nil, errors.New(errors.ErrCodeValidationFailed, "用户ID不能为空")
	}
	if achievementID == "" {
		return nil, errors.New(errors.ErrCodeValidationFailed, "成就ID不能为空")
	}

	achievement, err := s.achievements.GetAchievementByID(achievementID)
	if err != nil {
		if errors.IsCode(err, errors.ErrCodeNotFound) {
			return nil, errors.New(errors.ErrCodeNotFound, "成就不存在！")
		}
		return nil, err
	}
	if _, err := s.userSvc.GetUser(userID); err != nil {
		return nil, err
	}

	grant := &models.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		AchievedAt:    time.Now().UTC(),
	}
	if err := s.achievements.AwardAchievement(grant); err != nil {
		if errors.IsCode(err, errors.ErrCodeAlreadyExists) {
			return &AwardResult{Achievement: *achievement, Granted: false}, nil
		}
		return nil, err
	}

	if achievement.RewardCoins > 0 {
		if err := s.userSvc.AddCoins(userID, achievement.RewardCoins, "成就奖励："+achievement.Name); err != nil {
			return nil, err
		}
	}
	if achievement.RewardTitle != "" {
		if err := s.userSvc.SetTitle(userID, achievement.RewardTitle); err != nil {
			return nil, err
		}
	}

	logger.Info("achievement awarded",
		"user_id", userID,
		"achievement_id", achievementID,
		"reward_coins", achievement.RewardCoins,
	)
	return &AwardResult{Achievement: *achievement, Granted: true}, nil
}

// UserAchievements returns the user's earned achievements joined with
// their catalog entries, newest first.
func (s *AchievementService) UserAchievements(userID string) ([]OwnedAchievement, error) {
	grants, err := s.achievements.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalogByID()
	if err != nil {
		return nil, err
	}

	owned := make([]OwnedAchievement, 0, len(grants))
	for _, grant := range grants {
		achievement, ok := catalog[grant.AchievementID]
		if !ok {
			logger.Warn("granted achievement missing from catalog",
				"user_id", userID,
				"achievement_id", grant.AchievementID,
			)
			continue
		}
		owned = append(owned, OwnedAchievement{Achievement: achievement, AchievedAt: grant.AchievedAt})
	}
	return owned, nil
}

// PopUnnotified returns achievements earned but not yet announced and
// marks them notified, oldest first.
func (s *AchievementService) PopUnnotified(userID string) ([]models.Achievement, error) {
	grants, err := s.achievements.GetUnnotified(userID)
	if err != nil {
		return nil, err
	}
	if len(grants) == 0 {
		return nil, nil
	}
	catalog, err := s.catalogByID()
	if err != nil {
		return nil, err
	}

	fresh := make([]models.Achievement, 0, len(grants))
	for _, grant := range grants {
		if err := s.achievements.MarkNotified(userID, grant.AchievementID); err != nil {
			return nil, err
		}
		if achievement, ok := catalog[grant.AchievementID]; ok {
			fresh = append(fresh, achievement)
		}
	}
	return fresh, nil
}

func (s *AchievementService) catalogByID() (map[string]models.Achievement, error) {
	all, err := s.achievements.GetAllAchievements()
	if err != nil {
		return nil, err
	}
	catalog := make(map[string]models.Achievement, len(all))
	for _, a := range all {
		catalog[a.ID] = a
	}
	return catalog, nil
}
