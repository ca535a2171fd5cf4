package database

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/logger"
)

const legacyRouletteTable = "roulette_games"

// legacyRouletteGame mirrors the table the standalone roulette plugin
// wrote before game sessions were generalized.
type legacyRouletteGame struct {
	ID                 string         `gorm:"column:id"`
	ChannelID          string         `gorm:"column:channel_id"`
	CreatorID          string         `gorm:"column:creator_id"`
	CreatorName        string         `gorm:"column:creator_name"`
	BetAmount          int64          `gorm:"column:bet_amount"`
	Status             string         `gorm:"column:status"`
	Players            datatypes.JSON `gorm:"column:players"`
	BulletPosition     int            `gorm:"column:bullet_position"`
	CurrentPosition    int            `gorm:"column:current_position"`
	CurrentPlayerIndex int            `gorm:"column:current_player_index"`
	CreatedAt          time.Time      `gorm:"column:created_at"`
	StartedAt          *time.Time     `gorm:"column:started_at"`
	FinishedAt         *time.Time     `gorm:"column:finished_at"`
}

func (legacyRouletteGame) TableName() string {
	return legacyRouletteTable
}

// MigrateLegacyRouletteGames copies rows from the retired roulette_games
// table into game_rooms and drops the source table. Rows whose id already
// exists in game_rooms are left alone, so rerunning after a partial copy
// never duplicates. A database without the legacy table is a no-op.
func MigrateLegacyRouletteGames(db *gorm.DB) (int64, error) {
	if !db.Migrator().HasTable(legacyRouletteTable) {
		return 0, nil
	}

	var legacy []legacyRouletteGame
	if err := db.Find(&legacy).Error; err != nil {
		return 0, fmt.Errorf("failed to read legacy roulette games: %w", err)
	}

	var migrated int64
	for i := range legacy {
		room, err := legacyRoomFromRoulette(&legacy[i])
		if err != nil {
			return migrated, fmt.Errorf("failed to convert legacy room %s: %w", legacy[i].ID, err)
		}
		result := db.Clauses(clause.OnConflict{DoNothing: true}).Create(room)
		if result.Error != nil {
			return migrated, fmt.Errorf("failed to insert legacy room %s: %w", legacy[i].ID, result.Error)
		}
		migrated += result.RowsAffected
	}

	if err := db.Migrator().DropTable(legacyRouletteTable); err != nil {
		return migrated, fmt.Errorf("failed to drop legacy roulette table: %w", err)
	}

	logger.Info("Legacy roulette table migrated and dropped",
		"rows", len(legacy),
		"copied", migrated,
	)
	return migrated, nil
}

// legacyRoomFromRoulette converts one legacy row into a game_rooms row.
// The game_data object carries exactly the three positional columns the
// legacy schema stored; chamber and bullet counts were implicit back then
// and default on first decode.
func legacyRoomFromRoulette(g *legacyRouletteGame) (*models.GameRoom, error) {
	state, err := json.Marshal(map[string]int{
		"bullet_position":      g.BulletPosition,
		"current_position":     g.CurrentPosition,
		"current_player_index": g.CurrentPlayerIndex,
	})
	if err != nil {
		return nil, err
	}

	players := g.Players
	if len(players) == 0 {
		players = datatypes.JSON("[]")
	}

	return &models.GameRoom{
		ID:          g.ID,
		GameType:    "russian_roulette",
		ChannelID:   g.ChannelID,
		CreatorID:   g.CreatorID,
		CreatorName: g.CreatorName,
		BetAmount:   g.BetAmount,
		Status:      g.Status,
		MaxPlayers:  6,
		MinPlayers:  2,
		Players:     players,
		GameData:    datatypes.JSON(state),
		Settings:    datatypes.JSON("{}"),
		CreatedAt:   g.CreatedAt,
		StartedAt:   g.StartedAt,
		FinishedAt:  g.FinishedAt,
	}, nil
}
