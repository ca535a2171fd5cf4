package repositories

import (
	"encoding/json"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

// CreateRoom creates a new game room
func (r *RoomRepository) CreateRoom(room *models.GameRoom) error {
	if err := r.db.Create(room).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create room")
	}
	return nil
}

// GetRoomByID retrieves a room by ID
func (r *RoomRepository) GetRoomByID(roomID string) (*models.GameRoom, error) {
	var room models.GameRoom
	result := r.db.Where("id = ?", roomID).First(&room)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "room not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get room")
	}

	return &room, nil
}

// UpdateRoom persists a modified room
func (r *RoomRepository) UpdateRoom(room *models.GameRoom) error {
	if err := r.db.Save(room).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update room")
	}
	return nil
}

// DeleteRoom removes a room row
func (r *RoomRepository) DeleteRoom(roomID string) error {
	result := r.db.Where("id = ?", roomID).Delete(&models.GameRoom{})
	if result.Error != nil {
		return errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to delete room")
	}
	if result.RowsAffected == 0 {
		return errors.New(errors.ErrCodeNotFound, "room not found")
	}
	return nil
}

// WithRoom runs fn against the room row under a FOR UPDATE lock and saves
// the result. Concurrent mutations of the same room serialize here.
func (r *RoomRepository) WithRoom(roomID string, fn func(room *models.GameRoom) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var room models.GameRoom
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", roomID).First(&room).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.New(errors.ErrCodeNotFound, "room not found")
			}
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to get room")
		}

		if err := fn(&room); err != nil {
			return err
		}

		if err := tx.Save(&room).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to update room")
		}

		return nil
	})
}

// GetChannelRooms retrieves rooms in a channel filtered by game type and
// status. Empty gameType or statuses means no filter.
func (r *RoomRepository) GetChannelRooms(channelID, gameType string, statuses []string) ([]models.GameRoom, error) {
	var rooms []models.GameRoom
	query := r.db.Where("channel_id = ?", channelID)

	if gameType != "" {
		query = query.Where("game_type = ?", gameType)
	}
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	result := query.Order("created_at DESC").Find(&rooms)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get channel rooms")
	}

	return rooms, nil
}

// GetUserRooms retrieves rooms whose players array seats the user,
// filtered by status.
func (r *RoomRepository) GetUserRooms(userID string, statuses []string) ([]models.GameRoom, error) {
	var rooms []models.GameRoom
	query := r.db.Where("players @> ?", playerProbe(userID))

	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}

	result := query.Order("created_at DESC").Find(&rooms)
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user rooms")
	}

	return rooms, nil
}

// playerProbe builds the jsonb containment argument for a seated user.
func playerProbe(userID string) string {
	probe, _ := json.Marshal([]map[string]string{{"user_id": userID}})
	return string(probe)
}
