package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/kidwild/coinarena/internal/games"
	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/internal/monitor"
	"github.com/kidwild/coinarena/pkg/errors"
	"github.com/kidwild/coinarena/pkg/logger"
)

// Statuses of rooms still considered live for listings and the
// one-open-room rule.
var openRoomStatuses = []string{models.RoomStatusWaiting, models.RoomStatusPlaying}

// GameService runs game sessions: room lifecycle, bet escrow, engine
// dispatch and settlement. All room mutations go through the store's
// row lock so two players acting at once cannot corrupt a session.
type GameService struct {
	registry *games.Registry
	rooms    RoomStore
	records  GameRecordStore
	userSvc  *UserService
	metrics  *monitor.Metrics
}

func NewGameService(registry *games.Registry, rooms RoomStore, records GameRecordStore, userSvc *UserService, metrics *monitor.Metrics) *GameService {
	return &GameService{
		registry: registry,
		rooms:    rooms,
		records:  records,
		userSvc:  userSvc,
		metrics:  metrics,
	}
}

// AvailableGames lists the registered games for menus.
func (s *GameService) AvailableGames() []games.Info {
	engines := s.registry.All()
	infos := make([]games.Info, 0, len(engines))
	for _, engine := range engines {
		infos = append(infos, games.InfoOf(engine))
	}
	return infos
}

// CreateRoom opens a new room with the creator seated and the bet
// escrowed. A player may only hold one open room at a time.
func (s *GameService) CreateRoom(gameType, channelID, creatorID, creatorName string, bet int64) (*models.GameRoom, error) {
	engine, ok := s.registry.Get(gameType)
	if !ok {
		return nil, errors.New(errors.ErrCodeValidation, fmt.Sprintf("不支持的游戏类型：%s", gameType))
	}
	if bet < engine.MinBet() {
		return nil, errors.New(errors.ErrCodeValidationFailed, fmt.Sprintf("最小下注金额为 %d 金币", engine.MinBet()))
	}
	if bet > engine.MaxBet() {
		return nil, errors.New(errors.ErrCodeValidationFailed, fmt.Sprintf("最大下注金额为 %d 金币", engine.MaxBet()))
	}

	user, _, err := s.userSvc.GetOrCreateUser(creatorID, creatorName)
	if err != nil {
		return nil, err
	}
	if user.Coins < bet {
		return nil, errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("金币不足！当前金币：%d，需要：%d", user.Coins, bet))
	}

	open, err := s.rooms.GetUserRooms(creatorID, openRoomStatuses)
	if err != nil {
		return nil, err
	}
	if len(open) > 0 {
		return nil, errors.New(errors.ErrCodeValidationFailed, "你已有活跃的游戏房间，请先完成或取消现有游戏。")
	}

	room := &models.GameRoom{
		GameType:    gameType,
		ChannelID:   channelID,
		CreatorID:   creatorID,
		CreatorName: user.Username,
		BetAmount:   bet,
		Status:      models.RoomStatusWaiting,
		MaxPlayers:  engine.MaxPlayers(),
		MinPlayers:  engine.MinPlayers(),
	}
	if err := room.AddPlayer(creatorID, user.Username); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to seat creator")
	}
	if err := engine.Initialize(room); err != nil {
		return nil, err
	}

	if err := s.rooms.CreateRoom(room); err != nil {
		return nil, err
	}
	if err := s.userSvc.SpendCoins(creatorID, bet, fmt.Sprintf("%s游戏下注 #%s", engine.Name(), room.ID)); err != nil {
		if derr := s.rooms.DeleteRoom(room.ID); derr != nil {
			logger.Error("failed to roll back room after escrow failure", "room_id", room.ID, "error", derr)
		}
		return nil, err
	}

	s.metrics.IncRoomsCreated(gameType)
	s.metrics.AddCoinsWagered(gameType, bet)
	logger.Info("game room created",
		"room_id", room.ID,
		"game_type", gameType,
		"channel_id", channelID,
		"creator_id", creatorID,
		"bet", bet,
	)
	return room, nil
}

// JoinRoom seats a player in a waiting room and escrows their bet.
func (s *GameService) JoinRoom(roomID, userID, username string) (*models.GameRoom, error) {
	var joined *models.GameRoom
	err := s.withRoom(roomID, func(room *models.GameRoom) error {
		engine, ok := s.registry.Get(room.GameType)
		if !ok {
			return errors.New(errors.ErrCodeInternalError, "游戏引擎不可用！")
		}
		if room.Status != models.RoomStatusWaiting {
			return errors.New(errors.ErrCodeValidationFailed, "游戏已开始或已结束，无法加入！")
		}
		if room.HasPlayer(userID) {
			return errors.New(errors.ErrCodeValidationFailed, "你已经加入了这个游戏！")
		}
		if room.IsFull() {
			return errors.New(errors.ErrCodeValidationFailed, fmt.Sprintf("游戏人数已满！（%d人）", room.MaxPlayers))
		}

		user, _, err := s.userSvc.GetOrCreateUser(userID, username)
		if err != nil {
			return err
		}
		if user.Coins < room.BetAmount {
			return errors.New(errors.ErrCodeInsufficientFunds, fmt.Sprintf("金币不足！当前金币：%d，需要：%d", user.Coins, room.BetAmount))
		}
		if err := s.userSvc.SpendCoins(userID, room.BetAmount, fmt.Sprintf("%s游戏下注 #%s", engine.Name(), room.ID)); err != nil {
			return err
		}
		if err := room.AddPlayer(userID, user.Username); err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to seat player")
		}

		s.metrics.AddCoinsWagered(room.GameType, room.BetAmount)
		joined = room
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("player joined room", "room_id", roomID, "user_id", userID)
	return joined, nil
}

// StartRoom moves a waiting room into play. Only the creator may start,
// and only once the engine's minimum seat count is met.
func (s *GameService) StartRoom(roomID, userID string) (*games.ActionResult, error) {
	var result *games.ActionResult
	err := s.withRoom(roomID, func(room *models.GameRoom) error {
		engine, ok := s.registry.Get(room.GameType)
		if !ok {
			return errors.New(errors.ErrCodeInternalError, "游戏引擎不可用！")
		}
		if room.CreatorID != userID {
			return errors.New(errors.ErrCodeValidationFailed, "只有游戏创建者可以开始游戏！")
		}
		if room.Status != models.RoomStatusWaiting {
			return errors.New(errors.ErrCodeValidationFailed, "游戏已开始或已结束！")
		}
		if !engine.CanStart(room) {
			return errors.New(errors.ErrCodeValidationFailed, fmt.Sprintf("至少需要 %d 名玩家才能开始游戏！", engine.MinPlayers()))
		}

		res, err := engine.Start(room)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		room.Status = models.RoomStatusPlaying
		room.StartedAt = &now
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("game started", "room_id", roomID, "user_id", userID)
	return result, nil
}

// ProcessAction feeds one player action to the engine. When the engine
// reports the game over, the room is settled in the same transaction:
// winners paid, records written, status moved to finished.
func (s *GameService) ProcessAction(roomID, userID, action string, params map[string]interface{}) (*games.ActionResult, error) {
	var result *games.ActionResult
	err := s.withRoom(roomID, func(room *models.GameRoom) error {
		engine, ok := s.registry.Get(room.GameType)
		if !ok {
			return errors.New(errors.ErrCodeInternalError, "游戏引擎不可用！")
		}
		if room.Status != models.RoomStatusPlaying {
			return errors.New(errors.ErrCodeValidationFailed, "游戏未开始或已结束！")
		}

		res, err := engine.HandleAction(room, userID, action, params)
		if err != nil {
			return err
		}
		if engine.Finished(room) {
			banner, err := s.settle(room, engine)
			if err != nil {
				return err
			}
			res.Message += banner
			res.Finished = true
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CancelRoom aborts a waiting room, refunding every seated player. The
// room row stays behind with status cancelled.
func (s *GameService) CancelRoom(roomID, userID string) error {
	var gameType string
	err := s.withRoom(roomID, func(room *models.GameRoom) error {
		if room.CreatorID != userID {
			return errors.New(errors.ErrCodeValidationFailed, "只有游戏创建者可以取消游戏！")
		}
		if room.Status != models.RoomStatusWaiting {
			return errors.New(errors.ErrCodeValidationFailed, "游戏已开始，无法取消！")
		}

		players, err := room.PlayerList()
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode players")
		}
		for _, p := range players {
			if err := s.userSvc.AddCoins(p.UserID, room.BetAmount, fmt.Sprintf("游戏取消退款 #%s", room.ID)); err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		room.Status = models.RoomStatusCancelled
		room.FinishedAt = &now
		gameType = room.GameType
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.IncRoomsCancelled(gameType)
	logger.Info("game room cancelled", "room_id", roomID, "user_id", userID)
	return nil
}

// ChannelRooms lists a channel's open rooms, optionally filtered to one
// game type.
func (s *GameService) ChannelRooms(channelID, gameType string) ([]models.GameRoom, error) {
	return s.rooms.GetChannelRooms(channelID, gameType, openRoomStatuses)
}

// UserRooms lists the rooms a user is currently seated in.
func (s *GameService) UserRooms(userID string) ([]models.GameRoom, error) {
	return s.rooms.GetUserRooms(userID, openRoomStatuses)
}

// UserStats aggregates a user's finished games.
func (s *GameService) UserStats(userID, gameType string) (*models.GameStats, error) {
	return s.records.GetUserStats(userID, gameType)
}

// UserRecords lists a user's recent finished games, newest first.
func (s *GameService) UserRecords(userID, gameType string, limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.records.GetUserRecords(userID, gameType, limit)
}

// withRoom wraps the store's room lock, translating a missing room into
// the user-facing error.
func (s *GameService) withRoom(roomID string, fn func(room *models.GameRoom) error) error {
	entered := false
	err := s.rooms.WithRoom(roomID, func(room *models.GameRoom) error {
		entered = true
		return fn(room)
	})
	if err != nil && !entered && errors.IsCode(err, errors.ErrCodeNotFound) {
		return errors.New(errors.ErrCodeNotFound, "游戏房间不存在！")
	}
	return err
}

// settle closes out a finished game: pays the winners from the pot,
// writes one game_records row per seated player and stamps the room
// finished. Runs inside the room lock; the caller's save persists the
// status change.
func (s *GameService) settle(room *models.GameRoom, engine games.Engine) (string, error) {
	outcome, err := engine.Outcome(room)
	if err != nil {
		return "", err
	}
	players, err := room.PlayerList()
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode players")
	}

	now := time.Now().UTC()
	room.Status = models.RoomStatusFinished
	room.FinishedAt = &now

	pot := room.BetAmount * int64(outcome.TotalPlayers)
	prizes := splitPot(pot, len(outcome.Winners))
	prizeOf := make(map[string]int64, len(outcome.Winners))
	var paid int64
	for i, winnerID := range outcome.Winners {
		prizeOf[winnerID] = prizes[i]
		paid += prizes[i]
		if err := s.userSvc.AddCoins(winnerID, prizes[i], fmt.Sprintf("%s游戏获胜 #%s", engine.Name(), room.ID)); err != nil {
			return "", err
		}
	}

	gameResult := map[string]interface{}{
		"total_players": outcome.TotalPlayers,
		"winners":       outcome.Winners,
		"winner_names":  outcome.WinnerNames,
	}
	for k, v := range outcome.Detail {
		gameResult[k] = v
	}
	details, err := json.Marshal(map[string]interface{}{
		"room_id":       room.ID,
		"total_players": outcome.TotalPlayers,
		"game_result":   gameResult,
	})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode game result")
	}

	for _, p := range players {
		won, isWinner := prizeOf[p.UserID]
		record := &models.GameRecord{
			UserID:   p.UserID,
			GameType: room.GameType,
			CoinsBet: room.BetAmount,
			CoinsWon: won,
			Result:   models.GameResultLose,
			Details:  datatypes.JSON(details),
		}
		if isWinner {
			record.Result = models.GameResultWin
		}
		if err := s.records.CreateRecord(record); err != nil {
			return "", err
		}
	}

	s.metrics.IncRoomsFinished(room.GameType)
	s.metrics.AddCoinsPaid(room.GameType, paid)
	logger.Info("game finished",
		"room_id", room.ID,
		"game_type", room.GameType,
		"pot", pot,
		"winners", outcome.Winners,
	)
	return settlementBanner(outcome.WinnerNames, prizes), nil
}

// splitPot divides the pot evenly among winners. Integer division leaves
// a remainder; it goes to the first winner so no coins vanish.
func splitPot(pot int64, winners int) []int64 {
	if winners == 0 {
		return nil
	}
	prizes := make([]int64, winners)
	share := pot / int64(winners)
	for i := range prizes {
		prizes[i] = share
	}
	prizes[0] += pot - share*int64(winners)
	return prizes
}

func settlementBanner(names []string, prizes []int64) string {
	if len(names) == 0 || len(prizes) == 0 {
		return ""
	}
	if len(names) == 1 {
		return fmt.Sprintf("\n\n🏆 游戏结束！%s 获得 %d 金币！", names[0], prizes[0])
	}
	return fmt.Sprintf("\n\n🏆 游戏结束！%s 平分奖池，每人获得 %d 金币！", strings.Join(names, "、"), prizes[len(prizes)-1])
}
