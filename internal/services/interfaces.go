package services

import (
	"time"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/internal/repositories"
)

// UserStore defines the user data access consumed by the services.
type UserStore interface {
	// CreateUser inserts a new user row
	CreateUser(user *models.User) error

	// GetUserByID retrieves a user by platform user id
	GetUserByID(userID string) (*models.User, error)

	// UpdateUser saves all fields of an existing user
	UpdateUser(user *models.User) error

	// GetBalance returns the current coin balance
	GetBalance(userID string) (int64, error)

	// AddCoins credits coins and bumps total_earned atomically
	AddCoins(userID string, amount int64) error

	// SpendCoins debits coins and bumps total_spent, failing on insufficient balance
	SpendCoins(userID string, amount int64) error

	// TransferCoins moves coins between two users in one transaction
	TransferCoins(fromID, toID string, amount int64) error

	// GetLeaderboard returns users ordered by coins descending
	GetLeaderboard(limit, offset int) ([]models.User, error)

	// GetUserRank returns the 1-based rank of a user by coins
	GetUserRank(userID string) (int, error)

	// CountUsers returns the total number of users
	CountUsers() (int64, error)
}

// RoomStore defines the game room data access consumed by GameService.
type RoomStore interface {
	// CreateRoom inserts a new room row
	CreateRoom(room *models.GameRoom) error

	// GetRoomByID retrieves a room by its short id
	GetRoomByID(roomID string) (*models.GameRoom, error)

	// UpdateRoom saves all fields of an existing room
	UpdateRoom(room *models.GameRoom) error

	// DeleteRoom removes a room row
	DeleteRoom(roomID string) error

	// WithRoom runs fn against the room row under a row lock and
	// persists the mutated room when fn returns nil
	WithRoom(roomID string, fn func(room *models.GameRoom) error) error

	// GetChannelRooms lists rooms of a channel filtered by optional
	// game type and status set, newest first
	GetChannelRooms(channelID, gameType string, statuses []string) ([]models.GameRoom, error)

	// GetUserRooms lists rooms whose player list contains the user
	GetUserRooms(userID string, statuses []string) ([]models.GameRoom, error)
}

// CheckInStore defines the check-in record access consumed by CheckInService.
type CheckInStore interface {
	// CreateRecord inserts a check-in row, reporting ALREADY_EXISTS
	// when the user already checked in on that date
	CreateRecord(record *models.CheckInRecord) error

	// GetByUserAndDate retrieves the record for one user and calendar day
	GetByUserAndDate(userID string, date time.Time) (*models.CheckInRecord, error)

	// GetUserRecords lists recent check-ins, newest first
	GetUserRecords(userID string, limit int) ([]models.CheckInRecord, error)

	// CountUserRecords returns the user's lifetime check-in count
	CountUserRecords(userID string) (int64, error)
}

// AchievementStore defines the achievement catalog and grant access
// consumed by AchievementService.
type AchievementStore interface {
	// UpsertAchievement inserts or refreshes one catalog entry
	UpsertAchievement(achievement *models.Achievement) error

	// GetAchievementByID retrieves one catalog entry
	GetAchievementByID(id string) (*models.Achievement, error)

	// GetAllAchievements lists the whole catalog
	GetAllAchievements() ([]models.Achievement, error)

	// GetAchievementsByCategory lists catalog entries of one category
	GetAchievementsByCategory(category string) ([]models.Achievement, error)

	// CountAchievements returns the catalog size
	CountAchievements() (int64, error)

	// AwardAchievement grants an achievement, reporting ALREADY_EXISTS
	// when the user already holds it
	AwardAchievement(userAchievement *models.UserAchievement) error

	// HasAchievement reports whether the user holds an achievement
	HasAchievement(userID, achievementID string) (bool, error)

	// GetUserAchievements lists the user's grants, newest first
	GetUserAchievements(userID string) ([]models.UserAchievement, error)

	// GetUnnotified lists grants the user has not been told about
	GetUnnotified(userID string) ([]models.UserAchievement, error)

	// MarkNotified flags one grant as announced
	MarkNotified(userID, achievementID string) error
}

// GameRecordStore defines the game audit log access consumed by GameService.
type GameRecordStore interface {
	// CreateRecord appends one per-player game outcome row
	CreateRecord(record *models.GameRecord) error

	// GetUserRecords lists a user's outcomes, newest first
	GetUserRecords(userID, gameType string, limit int) ([]models.GameRecord, error)

	// GetUserStats aggregates a user's outcomes into counters
	GetUserStats(userID, gameType string) (*models.GameStats, error)
}

// The GORM repositories are the production implementations.
var (
	_ UserStore        = (*repositories.UserRepository)(nil)
	_ RoomStore        = (*repositories.RoomRepository)(nil)
	_ CheckInStore     = (*repositories.CheckInRepository)(nil)
	_ AchievementStore = (*repositories.AchievementRepository)(nil)
	_ GameRecordStore  = (*repositories.GameRecordRepository)(nil)
)
