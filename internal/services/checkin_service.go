package services

import (
	"math/rand"
	"time"

	"github.com/kidwild/coinarena/internal/config"
	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/internal/monitor"
	"github.com/kidwild/coinarena/pkg/errors"
	"github.com/kidwild/coinarena/pkg/logger"
)

// Streak milestones paid once, on the exact day the streak lands on them.
var milestoneBonuses = map[int]int64{
	7:   500,
	14:  1000,
	30:  3000,
	60:  8000,
	90:  20000,
	180: 50000,
	365: 100000,
}

// CheckInResult reports one successful daily check-in.
type CheckInResult struct {
	BaseReward    int64
	BonusReward   int64
	TotalReward   int64
	Consecutive   int
	TotalCheckIns int
	CurrentCoins  int64
	IsNewUser     bool
}

// CheckInStats summarizes a user's check-in standing.
type CheckInStats struct {
	Consecutive    int
	TotalCheckIns  int64
	CheckedInToday bool
	NextCheckIn    time.Time
	TotalCoins     int64
	Recent         []models.CheckInRecord
}

type CheckInService struct {
	userSvc  *UserService
	users    UserStore
	checkIns CheckInStore
	cfg      *config.Config
	metrics  *monitor.Metrics
	rng      *rand.Rand
}

func NewCheckInService(userSvc *UserService, users UserStore, checkIns CheckInStore, cfg *config.Config, metrics *monitor.Metrics) *CheckInService {
	return &CheckInService{
		userSvc:  userSvc,
		users:    users,
		checkIns: checkIns,
		cfg:      cfg,
		metrics:  metrics,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CheckIn performs the daily check-in: once per UTC calendar day, the
// streak grows when yesterday was checked in and resets otherwise. The
// reward is a random base amount plus a milestone bonus on exact streak
// days. The unique (user_id, check_in_date) index backstops concurrent
// double check-ins.
func (s *CheckInService) CheckIn(userID, username string) (*CheckInResult, error) {
	user, isNew, err := s.userSvc.GetOrCreateUser(userID, username)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if user.CheckedInOn(now) {
		return nil, errors.New(errors.ErrCodeAlreadyExists, "今天已经签到过了！")
	}

	consecutive := s.consecutiveDays(user, now)
	base := s.baseReward()
	bonus := milestoneBonuses[consecutive]

	record := &models.CheckInRecord{
		UserID:          userID,
		CheckInDate:     dayStart(now),
		CoinsEarned:     base,
		ConsecutiveDays: consecutive,
		BonusCoins:      bonus,
	}
	if err := s.checkIns.CreateRecord(record); err != nil {
		if errors.IsCode(err, errors.ErrCodeAlreadyExists) {
			return nil, errors.New(errors.ErrCodeAlreadyExists, "今天已经签到过了！")
		}
		return nil, err
	}

	user.CheckInCount = consecutive
	user.LastCheckIn = &now
	user.TotalCheckIns++
	if err := s.users.UpdateUser(user); err != nil {
		return nil, err
	}

	total := base + bonus
	if err := s.users.AddCoins(userID, total); err != nil {
		return nil, err
	}
	balance, err := s.users.GetBalance(userID)
	if err != nil {
		return nil, err
	}

	s.metrics.IncCheckIns()
	logger.Info("user checked in",
		"user_id", userID,
		"consecutive_days", consecutive,
		"reward", total,
	)

	return &CheckInResult{
		BaseReward:    base,
		BonusReward:   bonus,
		TotalReward:   total,
		Consecutive:   consecutive,
		TotalCheckIns: user.TotalCheckIns,
		CurrentCoins:  balance,
		IsNewUser:     isNew,
	}, nil
}

// Stats returns the user's streak, lifetime count and recent records.
func (s *CheckInService) Stats(userID string) (*CheckInStats, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	records, err := s.checkIns.GetUserRecords(userID, 30)
	if err != nil {
		return nil, err
	}
	total, err := s.checkIns.CountUserRecords(userID)
	if err != nil {
		return nil, err
	}

	var coins int64
	for _, r := range records {
		coins += r.TotalCoins()
	}

	recent := records
	if len(recent) > 7 {
		recent = recent[:7]
	}

	now := time.Now().UTC()
	stats := &CheckInStats{
		Consecutive:    user.CheckInCount,
		TotalCheckIns:  total,
		CheckedInToday: user.CheckedInOn(now),
		NextCheckIn:    now,
		TotalCoins:     coins,
		Recent:         recent,
	}
	if user.LastCheckIn != nil {
		stats.NextCheckIn = dayStart(*user.LastCheckIn).AddDate(0, 0, 1)
	}
	return stats, nil
}

func (s *CheckInService) baseReward() int64 {
	min, max := s.cfg.CheckInRewardMin, s.cfg.CheckInRewardMax
	if max <= min {
		return min
	}
	return min + s.rng.Int63n(max-min+1)
}

// consecutiveDays computes the streak the current check-in lands on.
func (s *CheckInService) consecutiveDays(user *models.User, now time.Time) int {
	if user.LastCheckIn == nil {
		return 1
	}

	switch daysBetween(*user.LastCheckIn, now) {
	case 0:
		// The date guard should have caught this.
		logger.Warn("same-day check-in reached streak computation", "user_id", user.UserID)
		return user.CheckInCount
	case 1:
		return user.CheckInCount + 1
	default:
		return 1
	}
}

// dayStart truncates to UTC midnight.
func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the UTC calendar-day difference from a to b.
func daysBetween(a, b time.Time) int {
	return int(dayStart(b).Sub(dayStart(a)).Hours() / 24)
}
