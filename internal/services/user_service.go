package services

import (
	"github.com/kidwild/coinarena/internal/config"
	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/internal/security"
	"github.com/kidwild/coinarena/pkg/errors"
	"github.com/kidwild/coinarena/pkg/logger"
)

// UserProfile is a user row joined with derived standing fields.
type UserProfile struct {
	User       *models.User
	Rank       int
	NetProfit  int64
	ProfitRate float64
}

// LeaderboardEntry is one row of the coin leaderboard.
type LeaderboardEntry struct {
	Rank     int
	UserID   string
	Username string
	Coins    int64
	Level    int
	Title    string
}

type UserService struct {
	users UserStore
	cfg   *config.Config
}

func NewUserService(users UserStore, cfg *config.Config) *UserService {
	return &UserService{
		users: users,
		cfg:   cfg,
	}
}

// GetOrCreateUser looks the user up, creating the row with the starting
// balance on first contact. A changed platform display name refreshes the
// stored username. The bool reports whether the user is new.
func (s *UserService) GetOrCreateUser(userID, username string) (*models.User, bool, error) {
	if userID == "" {
		return nil, false, errors.New(errors.ErrCodeValidation, "用户ID不能为空")
	}
	username = security.CleanDisplayName(username)

	user, err := s.users.GetUserByID(userID)
	if err == nil {
		if username != user.Username && username != security.FallbackDisplayName {
			user.Username = username
			if err := s.users.UpdateUser(user); err != nil {
				return nil, false, err
			}
		}
		return user, false, nil
	}
	if !errors.IsCode(err, errors.ErrCodeNotFound) {
		return nil, false, err
	}

	user = &models.User{
		UserID:   userID,
		Username: username,
		Coins:    s.cfg.InitialCoins,
		Level:    1,
		Title:    models.DefaultTitle,
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, false, err
	}

	logger.Info("user created", "user_id", userID, "username", username, "initial_coins", s.cfg.InitialCoins)
	return user, true, nil
}

// GetUser fetches a user without creating one.
func (s *UserService) GetUser(userID string) (*models.User, error) {
	return s.users.GetUserByID(userID)
}

// AddCoins credits coins. The reason is only logged; it is not persisted.
func (s *UserService) AddCoins(userID string, amount int64, reason string) error {
	if amount <= 0 {
		return errors.New(errors.ErrCodeValidation, "金额必须大于0")
	}
	if err := s.users.AddCoins(userID, amount); err != nil {
		return err
	}

	logger.Debug("coins added", "user_id", userID, "amount", amount, "reason", reason)
	return nil
}

// SpendCoins debits coins, failing with INSUFFICIENT_FUNDS when the
// balance does not cover the amount.
func (s *UserService) SpendCoins(userID string, amount int64, reason string) error {
	if amount <= 0 {
		return errors.New(errors.ErrCodeValidation, "金额必须大于0")
	}
	if err := s.users.SpendCoins(userID, amount); err != nil {
		return err
	}

	logger.Debug("coins spent", "user_id", userID, "amount", amount, "reason", reason)
	return nil
}

// TransferCoins moves coins between two users.
func (s *UserService) TransferCoins(fromID, toID string, amount int64) error {
	if amount <= 0 {
		return errors.New(errors.ErrCodeValidation, "转账金额必须大于0")
	}
	if fromID == toID {
		return errors.New(errors.ErrCodeValidation, "不能给自己转账")
	}
	if err := s.users.TransferCoins(fromID, toID, amount); err != nil {
		return err
	}

	logger.Info("coins transferred", "from", fromID, "to", toID, "amount", amount)
	return nil
}

// AddExperience grants experience and reports whether the user leveled up,
// together with the resulting level.
func (s *UserService) AddExperience(userID string, exp int64) (bool, int, error) {
	if exp <= 0 {
		return false, 0, errors.New(errors.ErrCodeValidation, "经验值必须大于0")
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return false, 0, err
	}

	leveledUp := user.AddExperience(exp)
	if err := s.users.UpdateUser(user); err != nil {
		return false, 0, err
	}

	if leveledUp {
		logger.Info("user leveled up", "user_id", userID, "level", user.Level)
	}
	return leveledUp, user.Level, nil
}

// SetTitle replaces the user's display title.
func (s *UserService) SetTitle(userID, title string) error {
	if title == "" {
		return errors.New(errors.ErrCodeValidation, "称号不能为空")
	}

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return err
	}

	user.Title = title
	return s.users.UpdateUser(user)
}

// Profile returns the user together with rank and profit standing.
func (s *UserService) Profile(userID string) (*UserProfile, error) {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	rank, err := s.users.GetUserRank(userID)
	if err != nil {
		return nil, err
	}

	profile := &UserProfile{
		User:      user,
		Rank:      rank,
		NetProfit: user.NetProfit(),
	}
	if user.TotalSpent > 0 {
		profile.ProfitRate = float64(user.TotalEarned-user.TotalSpent) / float64(user.TotalSpent)
	}
	return profile, nil
}

// Leaderboard returns the top coin holders with 1-based ranks.
func (s *UserService) Leaderboard(limit, offset int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.users.GetLeaderboard(limit, offset)
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{
			Rank:     offset + i + 1,
			UserID:   u.UserID,
			Username: u.Username,
			Coins:    u.Coins,
			Level:    u.Level,
			Title:    u.Title,
		}
	}
	return entries, nil
}

// Rank returns the user's 1-based position on the coin leaderboard.
func (s *UserService) Rank(userID string) (int, error) {
	return s.users.GetUserRank(userID)
}

// TotalUsers returns the registered user count.
func (s *UserService) TotalUsers() (int64, error) {
	return s.users.CountUsers()
}
