package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameRecord is the append-only audit log: one row per player per finished
// game. Details carries per-game JSON (room id, player count, outcome).
type GameRecord struct {
	ID        uint           `gorm:"primaryKey"`
	UserID    string         `gorm:"type:varchar(100);not null;index"`
	GameType  string         `gorm:"type:varchar(50);not null;index"`
	CoinsBet  int64          `gorm:"default:0;not null"`
	CoinsWon  int64          `gorm:"default:0;not null"`
	Result    string         `gorm:"type:varchar(20);not null"`
	Details   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
}

// Game result constants
const (
	GameResultWin  = "win"
	GameResultLose = "lose"
	GameResultDraw = "draw"
)

// Net is the coin delta this game produced for the player.
func (g *GameRecord) Net() int64 {
	return g.CoinsWon - g.CoinsBet
}

// BeforeSave hook for result validation
func (g *GameRecord) BeforeSave(tx *gorm.DB) error {
	validResults := map[string]bool{
		GameResultWin:  true,
		GameResultLose: true,
		GameResultDraw: true,
	}
	if !validResults[g.Result] {
		return gorm.ErrInvalidData
	}
	return nil
}

func (GameRecord) TableName() string {
	return "game_records"
}

// GameStats aggregates a user's game_records rows, optionally filtered to
// one game type.
type GameStats struct {
	TotalGames int64
	Wins       int64
	Losses     int64
	Draws      int64
	TotalBet   int64
	TotalWon   int64
}

// NetProfit is total winnings minus total bets.
func (s *GameStats) NetProfit() int64 {
	return s.TotalWon - s.TotalBet
}

// WinRate returns wins over finished games as a percentage.
func (s *GameStats) WinRate() float64 {
	if s.TotalGames == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.TotalGames) * 100
}
