package env

import (
	"errors"
	"fmt"

	"connect4/game"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"
)

var ErrEpisodeOver = errors.New("episode is over - no moves allowed")

// Observation is what an agent sees after Reset or Step.
type Observation struct {
	Board       game.Board     `json:"board"`
	Turn        game.Player    `json:"turn"`
	NumCheckers [game.Cols]int `json:"numCheckers"`
}

func observe(gs game.GameState) Observation {
	return Observation{
		Board:       gs.Board(),
		Turn:        gs.PlayerTurn(),
		NumCheckers: gs.NumCheckers(),
	}
}

type Option func(e *Env)

func WithSeed(seed uint64) Option {
	return func(e *Env) {
		e.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRandomStart makes Reset begin episodes from RandState(false).
func WithRandomStart(random bool) Option {
	return func(e *Env) {
		e.randomStart = random
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(e *Env) {
		e.log = logger
	}
}

// Env wraps a GameState into an episodic step/reset API. It is not safe for
// concurrent use; run one Env per goroutine.
type Env struct {
	state       game.GameState
	done        bool
	steps       int
	randomStart bool
	rng         *rand.Rand
	log         zerolog.Logger
}

func New(options ...Option) *Env {
	e := &Env{
		rng: rand.New(rand.NewSource(1)),
		log: zerolog.Nop(),
	}
	for _, option := range options {
		option(e)
	}
	e.state = initialState()
	return e
}

func initialState() game.GameState {
	gs, err := game.New()
	if err != nil {
		panic(err)
	}
	return gs
}

// Reset starts a new episode and returns its first observation.
func (e *Env) Reset() (Observation, error) {
	state := initialState()
	if e.randomStart {
		var err error
		state, err = e.RandState(false)
		if err != nil {
			return Observation{}, err
		}
	}

	e.state = state
	e.done = false
	e.steps = 0
	e.log.Debug().Str("player", state.Player()).Int("checkers", sum(state.NumCheckers())).Msg("reset")
	return observe(e.state), nil
}

// Step plays the column for the player to move. done is true once the mover
// completes a line or the board fills up. Rejected actions leave the episode
// unchanged.
func (e *Env) Step(action int) (obs Observation, reward int, done bool, err error) {
	if e.done {
		return observe(e.state), 0, true, ErrEpisodeOver
	}

	mover := e.state.PlayerTurn()
	next, reward, gameOver, err := e.state.Step(action)
	if err != nil {
		return observe(e.state), 0, false, err
	}

	e.state = next
	e.steps++
	e.done = gameOver || next.IsFull()

	event := e.log.Debug().Int("step", e.steps).Stringer("player", mover).Int("column", action)
	if gameOver {
		event = event.Stringer("winner", mover)
	}
	event.Msg("step")

	return observe(e.state), reward, e.done, nil
}

// RandState samples a valid, non-terminal state without touching the episode.
// A fresh state is the empty board with Player 1 to move.
func (e *Env) RandState(fresh bool) (game.GameState, error) {
	if fresh {
		return initialState(), nil
	}

	const maxAttempts = 1000
	for attempt := 0; attempt < maxAttempts; attempt++ {
		state := initialState()
		depth := e.rng.Intn(game.Rows*game.Cols - 1)
		terminal := false
		for i := 0; i < depth; i++ {
			moves := state.LegalMoves()
			state = state.Play(moves[e.rng.Intn(len(moves))]).(game.GameState)
			if state.Winner() != "" {
				terminal = true
				break
			}
		}
		if !terminal && !state.IsFull() {
			return state, nil
		}
	}
	return game.GameState{}, fmt.Errorf("no non-terminal state after %d attempts", maxAttempts)
}

func (e *Env) State() game.GameState {
	return e.state
}

func (e *Env) Done() bool {
	return e.done
}

func (e *Env) Steps() int {
	return e.steps
}

func sum(counts [game.Cols]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}
