// Package game implements the Cutthroat Race rules engine: roll and move
// resolution, the landing pipeline, the effect dispatch table and the
// pending-event suspension protocol toward an external actor.
//
// The engine is single-threaded and cooperative. Every operation runs to
// completion; operations that need external input terminate early having
// enqueued a PendingEvent, and the caller continues the chain through the
// matching Resolve* call.
package game

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/google/uuid"

	"github.com/Shaherezada/cutthroat-race/internal/board"
	"github.com/Shaherezada/cutthroat-race/internal/cards"
)

// Recorder is the sink for human-readable match events. The engine records
// after most state-changing operations; implementations must preserve call
// order (log-based tests depend on it).
type Recorder interface {
	Record(turn, playerID int, eventType string, details map[string]any)
}

// NopRecorder discards all records.
type NopRecorder struct{}

func (NopRecorder) Record(int, int, string, map[string]any) {}

// Roll-zone and mini-game constants of the standard rule set.
const (
	bicycleBonus    = 10
	mineCellReward  = 10
	ohNoPenalty     = 10
	tornadoToll     = 10
	duelAttackBonus = 2
	duelRewardCoins = 10
	duelPushCells   = 10
	finishBoostCost = 5 // per +1, max +2
)

// Config parameterises a new match. Zero-value fields fall back to sane
// defaults: two players, a time seed, the standard board.
type Config struct {
	ID       uuid.UUID // zero generates a fresh match id
	Players  int
	Seed     int64
	Board    *board.Board
	Recorder Recorder
	Dice     Dice
}

// Engine orchestrates one match. It owns the State, the placed-mine map
// and the pending-event queue exclusively.
type Engine struct {
	ID    uuid.UUID
	board *board.Board
	state *State
	rec   Recorder
	dice  Dice

	placedMines map[int]int // cell id -> owner player id
	pending     []*PendingEvent

	gameOver bool
	winner   *Player
}

// NewEngine builds a match engine. It fails fast when the card data
// references an effect id with no registered handler.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cards.Validate(registeredEffects()); err != nil {
		return nil, err
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	if cfg.Players == 0 {
		cfg.Players = 2
	}
	if cfg.Board == nil {
		cfg.Board = board.DefaultBoard()
	}
	if cfg.Recorder == nil {
		cfg.Recorder = NopRecorder{}
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Dice == nil {
		cfg.Dice = NewDice(rng)
	}
	st, err := newState(cfg.Players, rng)
	if err != nil {
		return nil, err
	}
	return &Engine{
		ID:          cfg.ID,
		board:       cfg.Board,
		state:       st,
		rec:         cfg.Recorder,
		dice:        cfg.Dice,
		placedMines: make(map[int]int),
	}, nil
}

// Board returns the match board.
func (e *Engine) Board() *board.Board { return e.board }

// State returns the shared match state. Callers must not mutate it.
func (e *Engine) State() *State { return e.state }

// CurrentPlayer returns the player whose turn it is.
func (e *Engine) CurrentPlayer() *Player { return e.state.CurrentPlayer() }

// IsGameOver reports whether a terminal condition has been reached.
func (e *Engine) IsGameOver() bool { return e.gameOver }

// Winner returns the winning player once the game is over, else nil.
func (e *Engine) Winner() *Player { return e.winner }

// MineAt reports the owner of a placed mine on the given cell.
func (e *Engine) MineAt(cellID int) (ownerID int, ok bool) {
	ownerID, ok = e.placedMines[cellID]
	return ownerID, ok
}

func (e *Engine) record(playerID int, eventType string, details map[string]any) {
	if details == nil {
		details = map[string]any{}
	}
	e.rec.Record(e.state.TurnNumber, playerID, eventType, details)
}

// ---------------------------------------------------------------------------
// Roll resolution
// ---------------------------------------------------------------------------

// Roll produces the raw dice for the player's move. It does not move the
// player. Side effects: the double-move house rule grants an extra turn on
// doubles, and the six-skip house rule forfeits the next turn when any die
// shows a six, unless the player stands on the finish-safe cell, which the
// rule card itself exempts.
func (e *Engine) Roll(p *Player) []int {
	cell := e.board.MustCell(p.Position)

	if cell.Kind == board.FortuneCube {
		return []int{e.dice.Roll(), e.dice.Roll(), e.dice.Roll()}
	}

	count := 1
	if p.Position >= board.TwoDiceZoneStart {
		count = 2
	}
	rolls := make([]int, count)
	for i := range rolls {
		rolls[i] = e.dice.Roll()
	}

	if count == 2 && rolls[0] == rolls[1] {
		if rule, ok := e.state.RuleActive(cards.EffectRuleDoubleReroll); ok {
			p.HasExtraTurn = true
			e.record(p.ID, "rule_double_move", map[string]any{"rule": rule.Name, "rolls": rolls})
		}
	}

	if cell.Kind != board.FinishSafe {
		for _, r := range rolls {
			if r == 6 {
				if _, ok := e.state.RuleActive(cards.EffectRuleSixSkip); ok {
					p.SkipNextTurn = true
					e.record(p.ID, "rule_six_skip", map[string]any{"rolls": rolls})
				}
				break
			}
		}
	}
	return rolls
}

// MoveOptions derives the candidate step counts from raw dice. In the
// summation zone (and on the fortune cube) only the dice sum may be
// walked; elsewhere each die is a separate option. A held roll-boost
// passive adds value+1 variants. The result is sorted and deduplicated.
func (e *Engine) MoveOptions(p *Player, rolls []int) []int {
	cell := e.board.MustCell(p.Position)
	boosted := p.HasPassive(cards.EffectPassiveRollPlus1)

	if cell.Kind == board.FortuneCube || p.Position >= board.SummationZoneStart {
		sum := 0
		for _, r := range rolls {
			sum += r
		}
		if boosted {
			return []int{sum, sum + 1}
		}
		return []int{sum}
	}

	seen := map[int]bool{}
	var options []int
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			options = append(options, n)
		}
	}
	for _, r := range rolls {
		add(r)
		if boosted {
			add(r + 1)
		}
	}
	sort.Ints(options)
	return options
}

// ---------------------------------------------------------------------------
// Movement and the landing pipeline
// ---------------------------------------------------------------------------

// MovePlayer resolves a move and, for forward moves, runs the landing
// pipeline at the destination. applyEffects suppresses the pipeline for
// recursive mass-effect moves to avoid effect storms. Backward moves never
// trigger landing. A finished player no longer moves.
func (e *Engine) MovePlayer(p *Player, steps int, forward, applyEffects bool) {
	if p.IsFinished || e.gameOver {
		return
	}
	delta := steps
	if !forward {
		delta = -steps
	}
	start := p.Position
	target := e.board.ResolveMove(start, delta)

	if forward {
		e.applyOvertake(p, start, target)
	}
	p.Position = target
	if !forward {
		return
	}
	p.HasMoved = true

	cell := e.board.MustCell(target)
	if cell.Kind == board.Portal {
		// Transparent relocation; portals are paired, so the landing
		// pipeline never runs at either end of the jump.
		p.Position = cell.PortalTarget
		e.record(p.ID, "portal_jump", map[string]any{"from": cell.ID, "to": cell.PortalTarget})
		return
	}
	if applyEffects {
		e.handleLanding(p, cell)
	}
}

// applyOvertake charges the pickpocket house rule for every player passed
// on a forward move.
func (e *Engine) applyOvertake(p *Player, start, target int) {
	rule, ok := e.state.RuleActive(cards.EffectRuleOvertakeSteal)
	if !ok {
		return
	}
	for _, other := range e.state.Opponents(p) {
		if start < other.Position && other.Position <= target {
			amount := min(other.Coins, rule.Value)
			if other.Pay(amount) {
				p.AddCoins(amount)
				e.record(p.ID, "rule_overtake", map[string]any{"from": other.Name, "amount": amount})
			}
		}
	}
}

// handleLanding runs the fixed-order landing pipeline at the given cell:
// placed mine, passive shop cards, global house rules, then the cell's own
// effect. A triggered mine consumes itself and stops the pipeline.
func (e *Engine) handleLanding(p *Player, cell board.Cell) {
	if _, mined := e.placedMines[p.Position]; mined {
		delete(e.placedMines, p.Position)
		p.SkipNextTurn = true
		e.record(p.ID, "mine_triggered", map[string]any{"position": p.Position})
		return
	}
	e.checkPassives(p, cell)
	e.checkGlobalRules(p, cell)
	e.triggerCellEffect(p, cell)
}

// checkPassives fires the held passive shop cards that react to the
// landing cell. The roll-boost passive has no landing-time effect.
func (e *Engine) checkPassives(p *Player, cell board.Cell) {
	for _, c := range p.Hand {
		if !c.IsPassive {
			continue
		}
		switch {
		case c.Effect == cards.EffectPassiveRedIncome && cell.Kind == board.Red:
			p.AddCoins(c.Value)
			e.record(p.ID, "passive_income", map[string]any{"card": c.Name, "gain": c.Value})
		case c.Effect == cards.EffectPassiveEmptyGain && cell.Kind == board.Empty:
			p.AddCoins(c.Value)
			e.record(p.ID, "passive_income", map[string]any{"card": c.Name, "gain": c.Value})
		case c.Effect == cards.EffectPassiveEmptyMove && cell.Kind == board.Empty:
			e.record(p.ID, "passive_move", map[string]any{"card": c.Name, "steps": c.Value})
			e.MovePlayer(p, c.Value, true, true)
		}
	}
}

// checkGlobalRules applies the active house rules that react to the
// landing cell.
func (e *Engine) checkGlobalRules(p *Player, cell board.Cell) {
	for _, rule := range e.state.ActiveRules {
		switch rule.Effect {
		case cards.EffectRuleRedBad:
			if cell.Kind == board.Red {
				e.enqueueEventDraw(p, false)
			}
		case cards.EffectRuleRedTaxAll:
			if cell.Kind == board.Red {
				amount := rule.Value
				if len(e.state.Players) == 2 {
					amount = 2 * rule.Value
				}
				for _, other := range e.state.Opponents(p) {
					if p.Pay(amount) {
						other.AddCoins(amount)
					}
				}
				e.record(p.ID, "rule_red_tax", map[string]any{"rule": rule.Name, "amount": amount})
			}
		case cards.EffectRuleRedChoice:
			if cell.Kind == board.Red {
				e.push(&PendingEvent{Type: EventRedChoice, Player: p, Value: 3})
			}
		case cards.EffectRuleGreenGood:
			if cell.Kind == board.Green {
				e.enqueueEventDraw(p, true)
			}
		case cards.EffectRuleGreenIncome:
			if cell.Kind == board.Green {
				p.AddCoins(rule.Value)
				e.record(p.ID, "rule_green_income", map[string]any{"rule": rule.Name, "gain": rule.Value})
			}
		case cards.EffectRuleGreenMove:
			if cell.Kind == board.Green {
				e.record(p.ID, "rule_green_move", map[string]any{"rule": rule.Name, "steps": rule.Value})
				e.MovePlayer(p, rule.Value, true, true)
			}
		case cards.EffectRuleGreenExtraTurn:
			if cell.Kind == board.Green {
				p.HasExtraTurn = true
				e.record(p.ID, "rule_green_extra_turn", map[string]any{"rule": rule.Name})
			}
		case cards.EffectRuleCollisionDuel:
			var colliders []*Player
			for _, other := range e.state.Opponents(p) {
				if other.Position == p.Position && !other.IsFinished {
					colliders = append(colliders, other)
				}
			}
			switch {
			case len(colliders) == 1:
				e.startDuel(p, colliders[0])
			case len(colliders) > 1:
				e.push(&PendingEvent{Type: EventDuelChooseOpponent, Player: p, Opponents: colliders})
			}
		}
	}
}

// enqueueEventDraw draws one chest card and queues a reveal for the given
// face. A fully exhausted event deck yields nothing.
func (e *Engine) enqueueEventDraw(p *Player, good bool) {
	card, ok := e.state.Library.Events.DrawOne()
	if !ok {
		return
	}
	e.push(&PendingEvent{Type: EventCardReveal, Player: p, Event: card, GoodSide: good})
}

// triggerCellEffect dispatches the landed cell's intrinsic effect. An
// unknown cell kind is a fatal board-configuration error.
func (e *Engine) triggerCellEffect(p *Player, cell board.Cell) {
	switch cell.Kind {
	case board.Start, board.Empty, board.Red, board.Green:
		// Red/Green are purely rule-gated; no intrinsic effect.

	case board.Shop:
		offer := e.state.Library.Shop.Draw(2)
		e.push(&PendingEvent{Type: EventShop, Player: p, ShopCards: offer})

	case board.ChestGood:
		e.enqueueEventDraw(p, true)

	case board.ChestBad:
		e.enqueueEventDraw(p, false)

	case board.RuleDraw:
		if rule, ok := e.state.Library.Rules.DrawOne(); ok {
			e.push(&PendingEvent{Type: EventRuleReveal, Player: p, Rule: rule})
		}

	case board.Portal:
		// MovePlayer and relocate both short-circuit portals before the
		// pipeline runs; kept for board variants that chain effects here.
		p.Position = cell.PortalTarget
		e.record(p.ID, "portal_jump", map[string]any{"from": cell.ID, "to": cell.PortalTarget})

	case board.Bicycle:
		e.record(p.ID, "bicycle", map[string]any{"steps": bicycleBonus})
		e.MovePlayer(p, bicycleBonus, true, true)

	case board.FortuneCube:
		sum := e.dice.Roll() + e.dice.Roll() + e.dice.Roll()
		e.record(p.ID, "fortune_cube", map[string]any{"sum": sum})
		e.MovePlayer(p, sum, true, true)

	case board.Mine:
		roll := e.dice.Roll()
		switch {
		case roll == 1:
			p.SkipNextTurn = true
			e.record(p.ID, "mine_cell", map[string]any{"roll": roll, "outcome": "skip"})
		case roll == 6:
			e.record(p.ID, "mine_cell", map[string]any{"roll": roll, "outcome": "win"})
			e.endGame(p)
		default:
			p.AddCoins(mineCellReward)
			e.record(p.ID, "mine_cell", map[string]any{"roll": roll, "gain": mineCellReward})
		}

	case board.Tornado:
		for _, other := range e.state.Opponents(p) {
			e.push(&PendingEvent{Type: EventTornadoDecision, Player: other, TargetPos: p.Position})
		}

	case board.Duel:
		opponents := e.state.Opponents(p)
		if len(opponents) == 1 {
			e.startDuel(p, opponents[0])
		} else {
			e.push(&PendingEvent{Type: EventDuelChooseOpponent, Player: p, Opponents: opponents})
		}

	case board.FortunateSetup:
		e.enqueueEventDraw(p, true)
		if c, ok := e.state.Library.Shop.DrawOne(); ok {
			if !p.AddCard(c) {
				e.state.Library.Shop.Discard(c)
			}
		}
		if rule, ok := e.state.Library.Rules.DrawOne(); ok {
			e.state.AddRule(rule)
			e.record(p.ID, "rule_installed", map[string]any{"rule": rule.Name})
		}
		for _, other := range e.state.Opponents(p) {
			e.enqueueEventDraw(other, false)
		}

	case board.Tribute:
		total := 0
		for _, other := range e.state.Opponents(p) {
			roll := e.dice.Roll()
			payment := min(other.Coins, roll)
			if other.Pay(payment) {
				total += payment
			}
		}
		p.AddCoins(total)
		e.record(p.ID, "tribute", map[string]any{"collected": total})

	case board.OhNo:
		loss := min(p.Coins, ohNoPenalty)
		p.Pay(loss)
		e.record(p.ID, "oh_no", map[string]any{"loss": loss})

	case board.FinishSafe:
		p.IsFinished = true
		e.record(p.ID, "reached_finish", nil)

	default:
		// Unknown cell kinds mean a malformed board, which is
		// unrecoverable configuration.
		panic(fmt.Sprintf("game: no effect for cell kind %v at cell %d", cell.Kind, cell.ID))
	}
}

// ---------------------------------------------------------------------------
// Duel mini-game
// ---------------------------------------------------------------------------

// startDuel rolls the asymmetric skirmish (attacker d6+2 vs defender d6).
// A decisive win queues the winner's reward choice; a tie changes nothing.
func (e *Engine) startDuel(attacker, defender *Player) {
	atk := e.dice.Roll() + duelAttackBonus
	def := e.dice.Roll()
	e.record(attacker.ID, "duel", map[string]any{
		"defender": defender.Name, "attack_roll": atk, "defense_roll": def,
	})
	if atk == def {
		e.record(attacker.ID, "duel_draw", nil)
		return
	}
	winner, loser := attacker, defender
	if def > atk {
		winner, loser = defender, attacker
	}
	e.push(&PendingEvent{
		Type:        EventDuelChooseReward,
		Player:      winner,
		Loser:       loser,
		AttackRoll:  atk,
		DefenseRoll: def,
	})
}

// relocate teleports a player to a cell without running the landing
// pipeline. Tornado pulls, hooks and harpoons use it. A portal at the
// destination still jumps.
func (e *Engine) relocate(p *Player, cellID int) {
	p.Position = cellID
	if cell := e.board.MustCell(cellID); cell.Kind == board.Portal {
		p.Position = cell.PortalTarget
		e.record(p.ID, "portal_jump", map[string]any{"from": cell.ID, "to": cell.PortalTarget})
	}
}

// endGame sets the terminal state; all further progression ceases.
func (e *Engine) endGame(winner *Player) {
	e.gameOver = true
	e.winner = winner
	e.record(winner.ID, "game_over", map[string]any{"winner": winner.Name})
}
