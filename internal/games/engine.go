package games

import (
	"sort"

	"github.com/kidwild/coinarena/internal/models"
)

// Info describes one registered game for listings.
type Info struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	MinPlayers int    `json:"min_players"`
	MaxPlayers int    `json:"max_players"`
	MinBet     int64  `json:"min_bet"`
	MaxBet     int64  `json:"max_bet"`
	Rules      string `json:"rules"`
}

// ActionResult carries the outcome of one game action. Message is the
// user-facing text; Finished is set by the caller once the engine reports
// the game over.
type ActionResult struct {
	Message  string
	Finished bool
}

// Outcome is the settled result of a finished game. Detail is persisted
// into the game_records details column.
type Outcome struct {
	TotalPlayers int
	Winners      []string
	WinnerNames  []string
	Detail       map[string]interface{}
}

// Engine is a stateless per-game-type rule strategy. Engines operate only
// on the room's players list and game_data blob; persistence belongs to
// the caller.
type Engine interface {
	// Type is the stable game type key, e.g. "russian_roulette".
	Type() string
	// Name is the user-facing display name.
	Name() string
	MinPlayers() int
	MaxPlayers() int
	MinBet() int64
	MaxBet() int64
	// Rules returns the user-facing rules text.
	Rules() string
	// Initialize seeds game_data for a freshly created room.
	Initialize(room *models.GameRoom) error
	// CanStart reports whether the room holds enough players.
	CanStart(room *models.GameRoom) bool
	// Start arms the game on a room moving to playing status.
	Start(room *models.GameRoom) (*ActionResult, error)
	// HandleAction validates and applies one player action.
	HandleAction(room *models.GameRoom, userID, action string, params map[string]interface{}) (*ActionResult, error)
	// Status renders the current board for room listings.
	Status(room *models.GameRoom) string
	// Finished reports whether the game has reached its end state.
	Finished(room *models.GameRoom) bool
	// Outcome computes winners and settlement detail for a finished game.
	Outcome(room *models.GameRoom) (*Outcome, error)
}

// InfoOf collects an engine's listing fields.
func InfoOf(e Engine) Info {
	return Info{
		Type:       e.Type(),
		Name:       e.Name(),
		MinPlayers: e.MinPlayers(),
		MaxPlayers: e.MaxPlayers(),
		MinBet:     e.MinBet(),
		MaxBet:     e.MaxBet(),
		Rules:      e.Rules(),
	}
}

// Registry maps game types to engines. Engines register once at startup;
// lookups are read-only afterwards, so no locking is needed.
type Registry struct {
	engines map[string]Engine
}

func NewRegistry() *Registry {
	return &Registry{engines: make(map[string]Engine)}
}

// Register adds an engine. Two engines claiming the same type is a
// programmer error, so it panics.
func (r *Registry) Register(engine Engine) {
	if _, exists := r.engines[engine.Type()]; exists {
		panic("games: engine already registered for type " + engine.Type())
	}
	r.engines[engine.Type()] = engine
}

// Get looks up the engine for a game type.
func (r *Registry) Get(gameType string) (Engine, bool) {
	engine, ok := r.engines[gameType]
	return engine, ok
}

// All returns the registered engines sorted by type so listings are stable.
func (r *Registry) All() []Engine {
	types := make([]string, 0, len(r.engines))
	for t := range r.engines {
		types = append(types, t)
	}
	sort.Strings(types)

	engines := make([]Engine, 0, len(types))
	for _, t := range types {
		engines = append(engines, r.engines[t])
	}
	return engines
}
