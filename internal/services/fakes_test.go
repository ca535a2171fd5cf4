package services

import (
	"sort"
	"time"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/errors"
)

// In-memory stores mimicking the repository semantics, including the
// error codes the GORM implementations produce.

type fakeUserStore struct {
	users map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (f *fakeUserStore) CreateUser(user *models.User) error {
	if _, ok := f.users[user.UserID]; ok {
		return errors.New(errors.ErrCodeInternalError, "duplicate user id")
	}
	f.users[user.UserID] = *user
	return nil
}

func (f *fakeUserStore) GetUserByID(userID string) (*models.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return &user, nil
}

func (f *fakeUserStore) UpdateUser(user *models.User) error {
	f.users[user.UserID] = *user
	return nil
}

func (f *fakeUserStore) GetBalance(userID string) (int64, error) {
	user, ok := f.users[userID]
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	return user.Coins, nil
}

func (f *fakeUserStore) AddCoins(userID string, amount int64) error {
	user, ok := f.users[userID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	user.Coins += amount
	user.TotalEarned += amount
	f.users[userID] = user
	return nil
}

func (f *fakeUserStore) SpendCoins(userID string, amount int64) error {
	user, ok := f.users[userID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if user.Coins < amount {
		return errors.New(errors.ErrCodeInsufficientFunds, "insufficient coins")
	}
	user.Coins -= amount
	user.TotalSpent += amount
	f.users[userID] = user
	return nil
}

func (f *fakeUserStore) TransferCoins(fromID, toID string, amount int64) error {
	if _, ok := f.users[toID]; !ok {
		return errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if err := f.SpendCoins(fromID, amount); err != nil {
		return err
	}
	return f.AddCoins(toID, amount)
}

func (f *fakeUserStore) GetLeaderboard(limit, offset int) ([]models.User, error) {
	all := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Coins > all[j].Coins })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeUserStore) GetUserRank(userID string) (int, error) {
	user, ok := f.users[userID]
	if !ok {
		return 0, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	rank := 1
	for _, u := range f.users {
		if u.Coins > user.Coins {
			rank++
		}
	}
	return rank, nil
}

func (f *fakeUserStore) CountUsers() (int64, error) {
	return int64(len(f.users)), nil
}

type fakeRoomStore struct {
	rooms map[string]models.GameRoom
}

func newFakeRoomStore() *fakeRoomStore {
	return &fakeRoomStore{rooms: make(map[string]models.GameRoom)}
}

func (f *fakeRoomStore) CreateRoom(room *models.GameRoom) error {
	// Mirror the BeforeCreate hook the GORM layer runs.
	if err := room.BeforeCreate(nil); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create room")
	}
	if _, ok := f.rooms[room.ID]; ok {
		return errors.New(errors.ErrCodeInternalError, "duplicate room id")
	}
	f.rooms[room.ID] = *room
	return nil
}

func (f *fakeRoomStore) GetRoomByID(roomID string) (*models.GameRoom, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "room not found")
	}
	return &room, nil
}

func (f *fakeRoomStore) UpdateRoom(room *models.GameRoom) error {
	if _, ok := f.rooms[room.ID]; !ok {
		return errors.New(errors.ErrCodeNotFound, "room not found")
	}
	f.rooms[room.ID] = *room
	return nil
}

func (f *fakeRoomStore) DeleteRoom(roomID string) error {
	if _, ok := f.rooms[roomID]; !ok {
		return errors.New(errors.ErrCodeNotFound, "room not found")
	}
	delete(f.rooms, roomID)
	return nil
}

func (f *fakeRoomStore) WithRoom(roomID string, fn func(room *models.GameRoom) error) error {
	stored, ok := f.rooms[roomID]
	if !ok {
		return errors.New(errors.ErrCodeNotFound, "room not found")
	}
	room := stored
	if err := fn(&room); err != nil {
		return err
	}
	f.rooms[roomID] = room
	return nil
}

func (f *fakeRoomStore) GetChannelRooms(channelID, gameType string, statuses []string) ([]models.GameRoom, error) {
	var result []models.GameRoom
	for _, room := range f.rooms {
		if room.ChannelID != channelID {
			continue
		}
		if gameType != "" && room.GameType != gameType {
			continue
		}
		if !statusIn(room.Status, statuses) {
			continue
		}
		result = append(result, room)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (f *fakeRoomStore) GetUserRooms(userID string, statuses []string) ([]models.GameRoom, error) {
	var result []models.GameRoom
	for _, room := range f.rooms {
		if !room.HasPlayer(userID) {
			continue
		}
		if !statusIn(room.Status, statuses) {
			continue
		}
		result = append(result, room)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func statusIn(status string, statuses []string) bool {
	if len(statuses) == 0 {
		return true
	}
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

type fakeCheckInStore struct {
	records []models.CheckInRecord
	nextID  uint
}

func newFakeCheckInStore() *fakeCheckInStore {
	return &fakeCheckInStore{nextID: 1}
}

func dateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func (f *fakeCheckInStore) CreateRecord(record *models.CheckInRecord) error {
	for _, r := range f.records {
		if r.UserID == record.UserID && dateKey(r.CheckInDate) == dateKey(record.CheckInDate) {
			return errors.New(errors.ErrCodeAlreadyExists, "already checked in on this date")
		}
	}
	record.ID = f.nextID
	f.nextID++
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeCheckInStore) GetByUserAndDate(userID string, date time.Time) (*models.CheckInRecord, error) {
	for _, r := range f.records {
		if r.UserID == userID && dateKey(r.CheckInDate) == dateKey(date) {
			record := r
			return &record, nil
		}
	}
	return nil, errors.New(errors.ErrCodeNotFound, "check-in record not found")
}

func (f *fakeCheckInStore) GetUserRecords(userID string, limit int) ([]models.CheckInRecord, error) {
	var result []models.CheckInRecord
	for _, r := range f.records {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CheckInDate.After(result[j].CheckInDate) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeCheckInStore) CountUserRecords(userID string) (int64, error) {
	var count int64
	for _, r := range f.records {
		if r.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeAchievementStore struct {
	catalog map[string]models.Achievement
	grants  []models.UserAchievement
}

func newFakeAchievementStore() *fakeAchievementStore {
	return &fakeAchievementStore{catalog: make(map[string]models.Achievement)}
}

func (f *fakeAchievementStore) UpsertAchievement(achievement *models.Achievement) error {
	f.catalog[achievement.ID] = *achievement
	return nil
}

func (f *fakeAchievementStore) GetAchievementByID(id string) (*models.Achievement, error) {
	achievement, ok := f.catalog[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "achievement not found")
	}
	return &achievement, nil
}

func (f *fakeAchievementStore) GetAllAchievements() ([]models.Achievement, error) {
	all := make([]models.Achievement, 0, len(f.catalog))
	for _, a := range f.catalog {
		all = append(all, a)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Category != all[j].Category {
			return all[i].Category < all[j].Category
		}
		return all[i].ID < all[j].ID
	})
	return all, nil
}

func (f *fakeAchievementStore) GetAchievementsByCategory(category string) ([]models.Achievement, error) {
	var result []models.Achievement
	for _, a := range f.catalog {
		if a.Category == category {
			result = append(result, a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (f *fakeAchievementStore) CountAchievements() (int64, error) {
	return int64(len(f.catalog)), nil
}

func (f *fakeAchievementStore) AwardAchievement(userAchievement *models.UserAchievement) error {
	for _, g := range f.grants {
		if g.UserID == userAchievement.UserID && g.AchievementID == userAchievement.AchievementID {
			return errors.New(errors.ErrCodeAlreadyExists, "achievement already granted")
		}
	}
	f.grants = append(f.grants, *userAchievement)
	return nil
}

func (f *fakeAchievementStore) HasAchievement(userID, achievementID string) (bool, error) {
	for _, g := range f.grants {
		if g.UserID == userID && g.AchievementID == achievementID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAchievementStore) GetUserAchievements(userID string) ([]models.UserAchievement, error) {
	var result []models.UserAchievement
	for _, g := range f.grants {
		if g.UserID == userID {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AchievedAt.After(result[j].AchievedAt) })
	return result, nil
}

func (f *fakeAchievementStore) GetUnnotified(userID string) ([]models.UserAchievement, error) {
	var result []models.UserAchievement
	for _, g := range f.grants {
		if g.UserID == userID && !g.Notified {
			result = append(result, g)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AchievedAt.Before(result[j].AchievedAt) })
	return result, nil
}

func (f *fakeAchievementStore) MarkNotified(userID, achievementID string) error {
	for i, g := range f.grants {
		if g.UserID == userID && g.AchievementID == achievementID {
			f.grants[i].Notified = true
			return nil
		}
	}
	return errors.New(errors.ErrCodeNotFound, "user achievement not found")
}

type fakeGameRecordStore struct {
	records []models.GameRecord
	nextID  uint
}

func newFakeGameRecordStore() *fakeGameRecordStore {
	return &fakeGameRecordStore{nextID: 1}
}

func (f *fakeGameRecordStore) CreateRecord(record *models.GameRecord) error {
	record.ID = f.nextID
	f.nextID++
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeGameRecordStore) GetUserRecords(userID, gameType string, limit int) ([]models.GameRecord, error) {
	var result []models.GameRecord
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if r.UserID != userID {
			continue
		}
		if gameType != "" && r.GameType != gameType {
			continue
		}
		result = append(result, r)
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (f *fakeGameRecordStore) GetUserStats(userID, gameType string) (*models.GameStats, error) {
	stats := &models.GameStats{}
	for _, r := range f.records {
		if r.UserID != userID {
			continue
		}
		if gameType != "" && r.GameType != gameType {
			continue
		}
		stats.TotalGames++
		switch r.Result {
		case models.GameResultWin:
			stats.Wins++
		case models.GameResultLose:
			stats.Losses++
		case models.GameResultDraw:
			stats.Draws++
		}
		stats.TotalBet += r.CoinsBet
		stats.TotalWon += r.CoinsWon
	}
	return stats, nil
}
