package games

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/kidwild/coinarena/internal/models"
	"github.com/kidwild/coinarena/pkg/errors"
)

const (
	rouletteChambers = 6
	rouletteBullets  = 1

	maxShotsPerTurn = 3
)

// rouletteState is the game_data payload of one Russian roulette session.
// Rows migrated from the legacy roulette_games table carry only the three
// positional fields, so chamber_count and bullets_count can decode as zero.
type rouletteState struct {
	BulletPosition     int `json:"bullet_position"`
	CurrentPosition    int `json:"current_position"`
	CurrentPlayerIndex int `json:"current_player_index"`
	ChamberCount       int `json:"chamber_count"`
	BulletsCount       int `json:"bullets_count"`
}

func (st *rouletteState) normalize() {
	if st.ChamberCount <= 0 {
		st.ChamberCount = rouletteChambers
	}
	if st.BulletsCount <= 0 {
		st.BulletsCount = rouletteBullets
	}
}

// RussianRouletteEngine is the classic elimination game: six chambers, one
// bullet, players take turns pulling the trigger until a single survivor
// claims the pot.
type RussianRouletteEngine struct {
	rng *rand.Rand
}

func NewRussianRouletteEngine() *RussianRouletteEngine {
	return &RussianRouletteEngine{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (e *RussianRouletteEngine) Type() string { return "russian_roulette" }

func (e *RussianRouletteEngine) Name() string { return "俄罗斯轮盘" }

func (e *RussianRouletteEngine) MinPlayers() int { return 2 }

func (e *RussianRouletteEngine) MaxPlayers() int { return 6 }

func (e *RussianRouletteEngine) MinBet() int64 { return 100 }

func (e *RussianRouletteEngine) MaxBet() int64 { return 10000 }

func (e *RussianRouletteEngine) Rules() string {
	return fmt.Sprintf(
		"🎲 %s游戏规则 🎲\n\n"+
			"📝 基本规则:\n"+
			"• 转轮有%d个位置，其中%d个位置有子弹\n"+
			"• 玩家轮流开枪，每次可开1-%d枪\n"+
			"• 中弹的玩家出局，最后存活者获得所有金币\n"+
			"• 玩家数量: %d-%d 人\n"+
			"• 下注范围: %d-%d 金币\n\n"+
			"⚠️ 注意事项:\n"+
			"• 游戏开始后无法退出\n"+
			"• 创建游戏时立即扣除金币\n"+
			"• 游戏取消会退还所有金币",
		e.Name(), rouletteChambers, rouletteBullets, maxShotsPerTurn,
		e.MinPlayers(), e.MaxPlayers(), e.MinBet(), e.MaxBet())
}

// Initialize seeds game_data for a fresh room. The bullet stays unplaced
// (position 0) until Start spins the chamber.
func (e *RussianRouletteEngine) Initialize(room *models.GameRoom) error {
	return room.EncodeGameData(rouletteState{
		BulletPosition:     0,
		CurrentPosition:    1,
		CurrentPlayerIndex: 0,
		ChamberCount:       rouletteChambers,
		BulletsCount:       rouletteBullets,
	})
}

func (e *RussianRouletteEngine) CanStart(room *models.GameRoom) bool {
	return room.PlayerCount() >= e.MinPlayers()
}

// Start spins the chamber, shuffles the seating order and arms every
// player as alive with zero shots fired.
func (e *RussianRouletteEngine) Start(room *models.GameRoom) (*ActionResult, error) {
	var state rouletteState
	if err := room.DecodeGameData(&state); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode game data")
	}
	state.normalize()
	state.BulletPosition = e.rng.Intn(state.ChamberCount) + 1
	state.CurrentPosition = 1
	state.CurrentPlayerIndex = 0

	players, err := room.PlayerList()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode players")
	}
	if len(players) == 0 {
		return nil, errors.New(errors.ErrCodeValidationFailed, "游戏房间没有玩家！")
	}

	e.rng.Shuffle(len(players), func(i, j int) {
		players[i], players[j] = players[j], players[i]
	})
	for i := range players {
		players[i].IsAlive = true
		players[i].ShotsFired = 0
	}

	if err := room.SetPlayerList(players); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode players")
	}
	if err := room.EncodeGameData(state); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode game data")
	}

	names := make([]string, len(players))
	for i, p := range players {
		names[i] = p.Username
	}

	message := fmt.Sprintf(
		"🔥 %s #%s 开始！\n\n"+
			"参与玩家: %s\n"+
			"奖池金额: %d 金币\n"+
			"转轮弹仓: %d 个位置，%d 颗子弹\n\n"+
			"🎯 轮到 %s 开枪！",
		e.Name(), room.ID, strings.Join(names, ", "),
		room.BetAmount*int64(len(players)),
		state.ChamberCount, state.BulletsCount,
		players[state.CurrentPlayerIndex].Username)

	return &ActionResult{Message: message}, nil
}

// HandleAction applies one "shoot" volley of 1-3 trigger pulls for the
// player whose turn it is. A hit eliminates the shooter; with more than
// one survivor left the chamber re-arms and play continues, otherwise the
// room is handed back for settlement.
func (e *RussianRouletteEngine) HandleAction(room *models.GameRoom, userID, action string, params map[string]interface{}) (*ActionResult, error) {
	if action != "shoot" {
		return nil, errors.New(errors.ErrCodeGameRule, "无效的游戏动作！")
	}

	var state rouletteState
	if err := room.DecodeGameData(&state); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode game data")
	}
	state.normalize()

	players, err := room.PlayerList()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode players")
	}
	if len(players) == 0 || state.CurrentPlayerIndex >= len(players) {
		return nil, errors.New(errors.ErrCodeInternalError, "room has no valid current player")
	}

	shooter := &players[state.CurrentPlayerIndex]
	if shooter.UserID != userID {
		return nil, errors.New(errors.ErrCodeGameRule, fmt.Sprintf("现在是 %s 的回合！", shooter.Username))
	}

	shots := shotCount(params)
	if shots < 1 || shots > maxShotsPerTurn {
		return nil, errors.New(errors.ErrCodeGameRule, fmt.Sprintf("每次可以开1-%d枪！", maxShotsPerTurn))
	}

	var lines []string
	died := false
	for i := 0; i < shots; i++ {
		if state.CurrentPosition == state.BulletPosition {
			died = true
			shooter.IsAlive = false
			lines = append(lines, fmt.Sprintf("💥 第%d枪：%s 中弹身亡！", i+1, shooter.Username))
			break
		}
		lines = append(lines, fmt.Sprintf("🔫 第%d枪：空枪，%s 安全！", i+1, shooter.Username))
		state.CurrentPosition++
		if state.CurrentPosition > state.ChamberCount {
			state.CurrentPosition = 1
		}
	}
	shooter.ShotsFired += shots

	alive := 0
	for _, p := range players {
		if p.IsAlive {
			alive++
		}
	}

	switch {
	case alive <= 1:
		// Last survivor standing. Settlement happens in GameService.
	case died:
		// The bullet is spent. Re-arm the chamber so the survivors keep
		// playing down to a single winner.
		state.BulletPosition = e.rng.Intn(state.ChamberCount) + 1
		state.CurrentPosition = 1
		state.CurrentPlayerIndex = nextAlive(players, state.CurrentPlayerIndex)
		lines = append(lines, fmt.Sprintf("\n🔄 转轮重新装填！轮到 %s 开枪！", players[state.CurrentPlayerIndex].Username))
	default:
		state.CurrentPlayerIndex = nextAlive(players, state.CurrentPlayerIndex)
		lines = append(lines, fmt.Sprintf("\n轮到 %s 开枪！", players[state.CurrentPlayerIndex].Username))
	}

	if err := room.SetPlayerList(players); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode players")
	}
	if err := room.EncodeGameData(state); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to encode game data")
	}

	message := strings.Join(lines, "\n")
	if alive > 1 {
		message += "\n\n" + e.Status(room)
	}
	return &ActionResult{Message: message}, nil
}

// Status renders the board: pot, chamber position, alive and dead rosters
// and whose trigger pull everyone is waiting on.
func (e *RussianRouletteEngine) Status(room *models.GameRoom) string {
	if room.Status != models.RoomStatusPlaying {
		return "游戏未在进行中"
	}

	var state rouletteState
	if err := room.DecodeGameData(&state); err != nil {
		return "游戏未在进行中"
	}
	state.normalize()

	players, err := room.PlayerList()
	if err != nil || len(players) == 0 {
		return "游戏未在进行中"
	}

	idx := state.CurrentPlayerIndex
	if idx < 0 || idx >= len(players) {
		idx = 0
	}
	current := players[idx]

	var alive, dead []models.RoomPlayer
	for _, p := range players {
		if p.IsAlive {
			alive = append(alive, p)
		} else {
			dead = append(dead, p)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🎲 %s #%s 进行中\n\n", e.Name(), room.ID)
	fmt.Fprintf(&b, "奖池: %d 金币\n", room.BetAmount*int64(len(players)))
	fmt.Fprintf(&b, "转轮位置: %d/%d\n\n", state.CurrentPosition, state.ChamberCount)

	fmt.Fprintf(&b, "🟢 存活玩家 (%d):\n", len(alive))
	for _, p := range alive {
		marker := "   "
		if p.UserID == current.UserID {
			marker = "👉 "
		}
		fmt.Fprintf(&b, "%s%s (开枪%d次)\n", marker, p.Username, p.ShotsFired)
	}

	if len(dead) > 0 {
		fmt.Fprintf(&b, "\n💀 阵亡玩家 (%d):\n", len(dead))
		for _, p := range dead {
			fmt.Fprintf(&b, "   %s (开枪%d次)\n", p.Username, p.ShotsFired)
		}
	}

	fmt.Fprintf(&b, "\n🎯 等待 %s 开枪", current.Username)
	return b.String()
}

func (e *RussianRouletteEngine) Finished(room *models.GameRoom) bool {
	players, err := room.PlayerList()
	if err != nil {
		return false
	}
	alive := 0
	for _, p := range players {
		if p.IsAlive {
			alive++
		}
	}
	return alive <= 1
}

func (e *RussianRouletteEngine) Outcome(room *models.GameRoom) (*Outcome, error) {
	var state rouletteState
	if err := room.DecodeGameData(&state); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode game data")
	}

	players, err := room.PlayerList()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to decode players")
	}

	out := &Outcome{
		TotalPlayers: len(players),
		Detail: map[string]interface{}{
			"bullet_position": state.BulletPosition,
			"final_position":  state.CurrentPosition,
		},
	}
	for _, p := range players {
		if p.IsAlive {
			out.Winners = append(out.Winners, p.UserID)
			out.WinnerNames = append(out.WinnerNames, p.Username)
		}
	}
	return out, nil
}

// nextAlive scans forward from idx, wrapping around, and returns the index
// of the next living player. Returns idx unchanged when nobody else lives.
func nextAlive(players []models.RoomPlayer, idx int) int {
	for attempts := 0; attempts < len(players); attempts++ {
		idx = (idx + 1) % len(players)
		if players[idx].IsAlive {
			return idx
		}
	}
	return idx
}

// shotCount reads the shots param. JSON-decoded params hand numbers over
// as float64.
func shotCount(params map[string]interface{}) int {
	if params == nil {
		return 1
	}
	switch v := params["shots"].(type) {
	case nil:
		return 1
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
