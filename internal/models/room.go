package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GameRoom is one game session. The players, game_data and settings columns
// are JSON side-channels: players holds the seat list, game_data is owned by
// the engine matching GameType and opaque to everything else.
type GameRoom struct {
	ID          string         `gorm:"primaryKey;type:varchar(8)"`
	GameType    string         `gorm:"type:varchar(50);not null;index"`
	ChannelID   string         `gorm:"type:varchar(100);not null;index"`
	CreatorID   string         `gorm:"type:varchar(100);not null;index"`
	CreatorName string         `gorm:"type:varchar(255);not null"`
	BetAmount   int64          `gorm:"not null"`
	Status      string         `gorm:"type:varchar(20);default:'waiting';index"`
	MaxPlayers  int            `gorm:"default:6"`
	MinPlayers  int            `gorm:"default:2"`
	Players     datatypes.JSON `gorm:"type:jsonb;default:'[]'"`
	GameData    datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	Settings    datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

// RoomPlayer is one entry of the players JSON array.
type RoomPlayer struct {
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	JoinedAt   time.Time `json:"joined_at"`
	IsAlive    bool      `json:"is_alive"`
	ShotsFired int       `json:"shots_fired"`
}

// Room status constants
const (
	RoomStatusWaiting   = "waiting"
	RoomStatusPlaying   = "playing"
	RoomStatusFinished  = "finished"
	RoomStatusCancelled = "cancelled"
)

// NewRoomID returns a short room id, the first 8 hex chars of a UUID.
func NewRoomID() string {
	return uuid.NewString()[:8]
}

// BeforeCreate hook to assign an id and seed the JSON columns
func (r *GameRoom) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = NewRoomID()
	}
	if len(r.Players) == 0 {
		r.Players = datatypes.JSON("[]")
	}
	if len(r.GameData) == 0 {
		r.GameData = datatypes.JSON("{}")
	}
	if len(r.Settings) == 0 {
		r.Settings = datatypes.JSON("{}")
	}
	return nil
}

// BeforeSave hook for status validation
func (r *GameRoom) BeforeSave(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = RoomStatusWaiting
	}

	validStatuses := map[string]bool{
		RoomStatusWaiting:   true,
		RoomStatusPlaying:   true,
		RoomStatusFinished:  true,
		RoomStatusCancelled: true,
	}
	if !validStatuses[r.Status] {
		return gorm.ErrInvalidData
	}

	return nil
}

// PlayerList decodes the players column.
func (r *GameRoom) PlayerList() ([]RoomPlayer, error) {
	if len(r.Players) == 0 {
		return nil, nil
	}

	var players []RoomPlayer
	if err := json.Unmarshal(r.Players, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// SetPlayerList encodes players back into the players column.
func (r *GameRoom) SetPlayerList(players []RoomPlayer) error {
	data, err := json.Marshal(players)
	if err != nil {
		return err
	}
	r.Players = datatypes.JSON(data)
	return nil
}

// AddPlayer appends a seat to the players column.
func (r *GameRoom) AddPlayer(userID, username string) error {
	players, err := r.PlayerList()
	if err != nil {
		return err
	}

	players = append(players, RoomPlayer{
		UserID:   userID,
		Username: username,
		JoinedAt: time.Now().UTC(),
	})
	return r.SetPlayerList(players)
}

// DecodeGameData unmarshals the engine-owned game_data column into v.
func (r *GameRoom) DecodeGameData(v interface{}) error {
	data := []byte(r.GameData)
	if len(data) == 0 {
		data = []byte("{}")
	}
	return json.Unmarshal(data, v)
}

// EncodeGameData marshals v into the game_data column.
func (r *GameRoom) EncodeGameData(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.GameData = datatypes.JSON(data)
	return nil
}

// PlayerCount returns the number of seats. Undecodable players JSON counts
// as zero.
func (r *GameRoom) PlayerCount() int {
	players, err := r.PlayerList()
	if err != nil {
		return 0
	}
	return len(players)
}

// HasPlayer reports whether userID is seated.
func (r *GameRoom) HasPlayer(userID string) bool {
	players, err := r.PlayerList()
	if err != nil {
		return false
	}
	for _, p := range players {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

func (r *GameRoom) IsFull() bool {
	return r.PlayerCount() >= r.MaxPlayers
}

// CanJoin reports whether a new player may take a seat.
func (r *GameRoom) CanJoin() bool {
	return r.Status == RoomStatusWaiting && !r.IsFull()
}

// CanStart reports whether the room holds enough players to begin.
func (r *GameRoom) CanStart() bool {
	return r.Status == RoomStatusWaiting && r.PlayerCount() >= r.MinPlayers
}

// IsOpen reports whether the session is still live (joinable or running).
func (r *GameRoom) IsOpen() bool {
	return r.Status == RoomStatusWaiting || r.Status == RoomStatusPlaying
}

func (GameRoom) TableName() string {
	return "game_rooms"
}
