package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"

	"golang.org/x/exp/rand"
)

// Phase drives what LegalMoves offers and who ToMove is.
type Phase int

const (
	PhaseTurn         Phase = iota // the acting player picks a turn action
	PhaseRespond                   // response window on the pending action
	PhaseRespondBlock              // response window on the pending block
	PhaseReveal                    // ToMove must surrender an influence card
	PhaseExchange                  // the actor picks which cards to keep
)

// continuation after a forced reveal resolves.
type after int

const (
	afterAdvance     after = iota // nothing left to do, next turn
	afterEnact                    // challenger of the action was wrong: enact it
	afterCancel                   // the action claim was a caught bluff: cancel
	afterBlockStands              // challenger of the block was wrong: cancel action
	afterBlockFails               // the block was a caught bluff: enact action
)

// Pending records an action awaiting challenge/block responses, plus the
// transient reveal and exchange context. All of it is public information.
type Pending struct {
	Kind       Kind
	Actor      int
	Target     int // NoTarget for untargeted actions
	BlockRole  Role
	Blocker    int // NoTarget until a block is claimed
	Challenger int // NoTarget until a challenge is raised
	Responders []int
	Drawn      []Role // exchange draw, hidden from everyone but the actor
	After      after
}

func (p *Pending) copy() *Pending {
	if p == nil {
		return nil
	}
	c := *p
	c.Responders = append([]int(nil), p.Responders...)
	c.Drawn = append([]Role(nil), p.Drawn...)
	return &c
}

// PlayerState is one seat: public coins, hidden hand, face-up lost cards.
type PlayerState struct {
	Coins int
	Hand  []Role
	Lost  []Role
}

func (p PlayerState) Influence() int { return len(p.Hand) }
func (p PlayerState) Alive() bool    { return len(p.Hand) > 0 }

// StateHash identifies a state for logging and transposition checks.
type StateHash uint64

// GameState is one fully-known determinization. Transitions go through Play
// exclusively; Play never mutates the receiver.
type GameState struct {
	Players []PlayerState
	Deck    []Role
	Turn    int // owner of the current turn action
	ToMove  int // player expected to act now (responder, revealer, ...)
	Phase   Phase
	Pending *Pending

	rng *rand.Rand
}

// NewGameState deals a fresh game: two cards and two coins per player.
// The rng is the only source of randomness for draws and shuffles.
func NewGameState(numPlayers int, rng *rand.Rand) *GameState {
	if numPlayers < 2 || numPlayers > 6 {
		panic(fmt.Sprintf("coup supports 2-6 players, got %d", numPlayers))
	}
	deck := NewDeck()
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	players := make([]PlayerState, numPlayers)
	for i := range players {
		players[i] = PlayerState{
			Coins: 2,
			Hand:  append([]Role(nil), deck[:2]...),
		}
		deck = deck[2:]
	}
	return &GameState{
		Players: players,
		Deck:    deck,
		Turn:    0,
		ToMove:  0,
		Phase:   PhaseTurn,
		rng:     rng,
	}
}

// Copy deep-copies everything but shares the rng.
func (gs *GameState) Copy() *GameState {
	players := make([]PlayerState, len(gs.Players))
	for i, p := range gs.Players {
		players[i] = PlayerState{
			Coins: p.Coins,
			Hand:  append([]Role(nil), p.Hand...),
			Lost:  append([]Role(nil), p.Lost...),
		}
	}
	return &GameState{
		Players: players,
		Deck:    append([]Role(nil), gs.Deck...),
		Turn:    gs.Turn,
		ToMove:  gs.ToMove,
		Phase:   gs.Phase,
		Pending: gs.Pending.copy(),
		rng:     gs.rng,
	}
}

// SetRand swaps the randomness source, e.g. per search worker.
func (gs *GameState) SetRand(rng *rand.Rand) { gs.rng = rng }

// Player returns the seat expected to move now.
func (gs *GameState) Player() int { return gs.ToMove }

func (gs *GameState) Alive(p int) bool { return gs.Players[p].Alive() }

func (gs *GameState) aliveCount() int {
	n := 0
	for i := range gs.Players {
		if gs.Players[i].Alive() {
			n++
		}
	}
	return n
}

// NextAlive returns the next surviving seat after p in turn order.
func (gs *GameState) NextAlive(p int) int {
	n := len(gs.Players)
	for i := 1; i <= n; i++ {
		q := (p + i) % n
		if gs.Players[q].Alive() {
			return q
		}
	}
	return p
}

// Winner returns the sole surviving seat, or NoTarget while the game runs.
func (gs *GameState) Winner() int {
	if gs.aliveCount() != 1 {
		return NoTarget
	}
	for i := range gs.Players {
		if gs.Players[i].Alive() {
			return i
		}
	}
	return NoTarget
}

// lostCount counts face-up copies of a role across all seats.
func (gs *GameState) lostCount(role Role) int {
	n := 0
	for i := range gs.Players {
		for _, r := range gs.Players[i].Lost {
			if r == role {
				n++
			}
		}
	}
	return n
}

// claimPlausible reports whether a role can still be claimed: bluffing a role
// with all three copies face up is a guaranteed loss, so it is not offered.
func (gs *GameState) claimPlausible(role Role) bool {
	return gs.lostCount(role) < CopiesPerRole
}

// LegalMoves returns the legal moves for ToMove, empty when the game is over.
func (gs *GameState) LegalMoves() []Move {
	if gs.Winner() != NoTarget {
		return nil
	}
	switch gs.Phase {
	case PhaseTurn:
		return gs.turnMoves()
	case PhaseRespond:
		return gs.responseMoves()
	case PhaseRespondBlock:
		return []Move{NewAction(Allow), NewAction(Challenge)}
	case PhaseReveal:
		return gs.revealMoves()
	case PhaseExchange:
		return gs.keepMoves()
	default:
		panic(fmt.Sprintf("unknown phase %d", gs.Phase))
	}
}

func (gs *GameState) turnMoves() []Move {
	actor := &gs.Players[gs.ToMove]
	var moves []Move

	coupMoves := func() []Move {
		var ms []Move
		for p := range gs.Players {
			if p != gs.ToMove && gs.Players[p].Alive() {
				ms = append(ms, NewTargeted(Coup, p))
			}
		}
		return ms
	}

	// Forced coup at ten or more coins.
	if actor.Coins >= 10 {
		return coupMoves()
	}

	moves = append(moves, NewAction(Income), NewAction(ForeignAid))
	if gs.claimPlausible(Duke) {
		moves = append(moves, NewAction(Tax))
	}
	if gs.claimPlausible(Captain) {
		for p := range gs.Players {
			if p != gs.ToMove && gs.Players[p].Alive() {
				moves = append(moves, NewTargeted(Steal, p))
			}
		}
	}
	if actor.Coins >= 3 && gs.claimPlausible(Assassin) {
		for p := range gs.Players {
			if p != gs.ToMove && gs.Players[p].Alive() {
				moves = append(moves, NewTargeted(Assassinate, p))
			}
		}
	}
	if gs.claimPlausible(Ambassador) {
		moves = append(moves, NewAction(Exchange))
	}
	if actor.Coins >= 7 {
		moves = append(moves, coupMoves()...)
	}
	return moves
}

func (gs *GameState) responseMoves() []Move {
	pending := gs.Pending
	moves := []Move{NewAction(Allow)}
	if pending.Kind.ClaimedRole() != NoRole {
		moves = append(moves, NewAction(Challenge))
	}
	for _, role := range BlockersOf(pending.Kind) {
		// Only the target may block a targeted action; foreign aid is
		// blockable by any responder.
		if pending.Kind.Targeted() && gs.ToMove != pending.Target {
			continue
		}
		if gs.claimPlausible(role) {
			moves = append(moves, NewBlock(role))
		}
	}
	return moves
}

func (gs *GameState) revealMoves() []Move {
	seen := map[Role]bool{}
	var moves []Move
	for _, r := range gs.Players[gs.ToMove].Hand {
		if !seen[r] {
			seen[r] = true
			moves = append(moves, NewReveal(r))
		}
	}
	return moves
}

func (gs *GameState) keepMoves() []Move {
	pending := gs.Pending
	pool := append(append([]Role(nil), gs.Players[pending.Actor].Hand...), pending.Drawn...)
	keep := len(gs.Players[pending.Actor].Hand)

	seen := map[[2]Role]bool{}
	var moves []Move
	if keep == 1 {
		for _, r := range pool {
			key := [2]Role{r, NoRole}
			if !seen[key] {
				seen[key] = true
				moves = append(moves, NewKeep(r))
			}
		}
		return moves
	}
	for i := 0; i < len(pool); i++ {
		for j := i + 1; j < len(pool); j++ {
			a, b := pool[i], pool[j]
			if a > b {
				a, b = b, a
			}
			key := [2]Role{a, b}
			if !seen[key] {
				seen[key] = true
				moves = append(moves, NewKeep(a, b))
			}
		}
	}
	return moves
}

// Play applies one move and returns the successor state. The receiver is
// never mutated. A move outside LegalMoves fails with ErrIllegalMove.
func (gs *GameState) Play(m Move) (*GameState, error) {
	legal := false
	for _, lm := range gs.LegalMoves() {
		if lm == m {
			legal = true
			break
		}
	}
	if !legal {
		return nil, fmt.Errorf("%w: %v for player %d in phase %d", ErrIllegalMove, m, gs.ToMove, gs.Phase)
	}

	next := gs.Copy()
	switch next.Phase {
	case PhaseTurn:
		next.applyAction(m)
	case PhaseRespond:
		next.applyResponse(m)
	case PhaseRespondBlock:
		next.applyBlockResponse(m)
	case PhaseReveal:
		next.applyReveal(m)
	case PhaseExchange:
		next.applyKeep(m)
	}
	return next, nil
}

func (gs *GameState) applyAction(m Move) {
	actor := gs.ToMove
	switch m.Kind {
	case Income:
		gs.Players[actor].Coins++
		gs.endTurn()
	case Coup:
		gs.Players[actor].Coins -= 7
		gs.Pending = &Pending{Kind: Coup, Actor: actor, Target: m.Target,
			Blocker: NoTarget, Challenger: NoTarget}
		gs.forceReveal(m.Target, afterAdvance)
	default:
		// Claim-based action: open the response window. Assassination is
		// paid on declaration and not refunded on block or challenge.
		gs.Pending = &Pending{Kind: m.Kind, Actor: actor, Target: m.Target,
			Blocker: NoTarget, Challenger: NoTarget}
		if m.Kind == Assassinate {
			gs.Players[actor].Coins -= 3
		}
		gs.Pending.Responders = gs.actionResponders()
		gs.Phase = PhaseRespond
		gs.ToMove = gs.Pending.Responders[0]
	}
}

// actionResponders orders the response window: the targeted player first,
// then the remaining players by turn order.
func (gs *GameState) actionResponders() []int {
	pending := gs.Pending
	var responders []int
	if pending.Target != NoTarget {
		responders = append(responders, pending.Target)
	}
	n := len(gs.Players)
	for i := 1; i < n; i++ {
		p := (pending.Actor + i) % n
		if p != pending.Target && gs.Players[p].Alive() {
			responders = append(responders, p)
		}
	}
	return responders
}

// blockResponders orders the block's response window: the blocked actor
// first, then the remaining players by turn order.
func (gs *GameState) blockResponders() []int {
	pending := gs.Pending
	responders := []int{pending.Actor}
	n := len(gs.Players)
	for i := 1; i < n; i++ {
		p := (pending.Actor + i) % n
		if p != pending.Blocker && p != pending.Actor && gs.Players[p].Alive() {
			responders = append(responders, p)
		}
	}
	return responders
}

func (gs *GameState) applyResponse(m Move) {
	pending := gs.Pending
	responder := gs.ToMove
	switch m.Kind {
	case Allow:
		pending.Responders = pending.Responders[1:]
		if len(pending.Responders) == 0 {
			gs.enact()
			return
		}
		gs.ToMove = pending.Responders[0]
	case Challenge:
		pending.Challenger = responder
		claim := pending.Kind.ClaimedRole()
		if gs.holds(pending.Actor, claim) {
			// Claim proven: the actor trades the shown card for a fresh
			// draw, the challenger pays with an influence card, and the
			// action still resolves.
			gs.redraw(pending.Actor, claim)
			gs.forceReveal(responder, afterEnact)
			return
		}
		gs.forceReveal(pending.Actor, afterCancel)
	case Block:
		pending.BlockRole = m.Role
		pending.Blocker = responder
		pending.Responders = gs.blockResponders()
		gs.Phase = PhaseRespondBlock
		gs.ToMove = pending.Responders[0]
	}
}

func (gs *GameState) applyBlockResponse(m Move) {
	pending := gs.Pending
	responder := gs.ToMove
	switch m.Kind {
	case Allow:
		pending.Responders = pending.Responders[1:]
		if len(pending.Responders) == 0 {
			// Unchallenged block: the action fizzles.
			gs.endTurn()
			return
		}
		gs.ToMove = pending.Responders[0]
	case Challenge:
		pending.Challenger = responder
		if gs.holds(pending.Blocker, pending.BlockRole) {
			gs.redraw(pending.Blocker, pending.BlockRole)
			gs.forceReveal(responder, afterBlockStands)
			return
		}
		gs.forceReveal(pending.Blocker, afterBlockFails)
	}
}

func (gs *GameState) applyReveal(m Move) {
	player := gs.ToMove
	gs.discard(player, m.Role)

	continuation := afterAdvance
	if gs.Pending != nil {
		continuation = gs.Pending.After
	}
	switch continuation {
	case afterEnact:
		gs.enact()
	case afterBlockFails:
		gs.Pending.BlockRole = NoRole
		gs.Pending.Blocker = NoTarget
		gs.enact()
	case afterCancel, afterBlockStands, afterAdvance:
		gs.endTurn()
	}
}

func (gs *GameState) applyKeep(m Move) {
	pending := gs.Pending
	actor := pending.Actor
	pool := append(append([]Role(nil), gs.Players[actor].Hand...), pending.Drawn...)

	kept := make([]Role, 0, m.KeepCount())
	for _, r := range m.Keep {
		if r != NoRole {
			kept = append(kept, r)
		}
	}
	// Everything not kept goes back to the deck.
	for _, r := range kept {
		for i, p := range pool {
			if p == r {
				pool = append(pool[:i], pool[i+1:]...)
				break
			}
		}
	}
	gs.Players[actor].Hand = kept
	gs.Deck = append(gs.Deck, pool...)
	gs.endTurn()
}

// enact resolves the pending action's effect once all responses are in.
func (gs *GameState) enact() {
	pending := gs.Pending
	actor := pending.Actor
	switch pending.Kind {
	case ForeignAid:
		gs.Players[actor].Coins += 2
		gs.endTurn()
	case Tax:
		gs.Players[actor].Coins += 3
		gs.endTurn()
	case Steal:
		stolen := min(2, gs.Players[pending.Target].Coins)
		gs.Players[pending.Target].Coins -= stolen
		gs.Players[actor].Coins += stolen
		gs.endTurn()
	case Assassinate:
		// The target may already be out, e.g. after losing their last card
		// challenging the assassin.
		if !gs.Players[pending.Target].Alive() {
			gs.endTurn()
			return
		}
		gs.forceReveal(pending.Target, afterAdvance)
	case Exchange:
		pending.Drawn = []Role{gs.draw(), gs.draw()}
		gs.Phase = PhaseExchange
		gs.ToMove = actor
	default:
		panic(fmt.Sprintf("cannot enact %v", pending.Kind))
	}
}

// forceReveal sends a player into the reveal phase and records what happens
// after they surrender a card.
func (gs *GameState) forceReveal(player int, continuation after) {
	gs.Pending.After = continuation
	gs.Phase = PhaseReveal
	gs.ToMove = player
}

func (gs *GameState) endTurn() {
	gs.Pending = nil
	gs.Phase = PhaseTurn
	gs.Turn = gs.NextAlive(gs.Turn)
	gs.ToMove = gs.Turn
}

func (gs *GameState) holds(player int, role Role) bool {
	for _, r := range gs.Players[player].Hand {
		if r == role {
			return true
		}
	}
	return false
}

// discard moves one hand card face up.
func (gs *GameState) discard(player int, role Role) {
	hand := gs.Players[player].Hand
	for i, r := range hand {
		if r == role {
			gs.Players[player].Hand = append(hand[:i], hand[i+1:]...)
			gs.Players[player].Lost = append(gs.Players[player].Lost, role)
			return
		}
	}
	panic(fmt.Sprintf("player %d cannot discard %v", player, role))
}

// redraw returns a proven claim card to the deck and draws a replacement.
// The shown card may come straight back; the draw is uniform over the deck.
func (gs *GameState) redraw(player int, role Role) {
	hand := gs.Players[player].Hand
	for i, r := range hand {
		if r == role {
			gs.Players[player].Hand = append(hand[:i], hand[i+1:]...)
			break
		}
	}
	gs.Deck = append(gs.Deck, role)
	gs.Players[player].Hand = append(gs.Players[player].Hand, gs.draw())
}

func (gs *GameState) draw() Role {
	if len(gs.Deck) == 0 {
		panic("drawing from an empty deck")
	}
	i := gs.rng.Intn(len(gs.Deck))
	r := gs.Deck[i]
	gs.Deck[i] = gs.Deck[len(gs.Deck)-1]
	gs.Deck = gs.Deck[:len(gs.Deck)-1]
	return r
}

// CardCount tallies influence cards everywhere they can live. It is always
// TotalInfluence; transitions that break this are modeling bugs.
func (gs *GameState) CardCount() int {
	n := len(gs.Deck)
	for i := range gs.Players {
		n += len(gs.Players[i].Hand) + len(gs.Players[i].Lost)
	}
	if gs.Pending != nil {
		n += len(gs.Pending.Drawn)
	}
	return n
}

// Hash folds the public state and hands into a 64-bit identity.
func (gs *GameState) Hash() StateHash {
	h := fnv.New64a()
	write := func(v int64) {
		binary.Write(h, binary.LittleEndian, v)
	}
	write(int64(gs.Turn))
	write(int64(gs.ToMove))
	write(int64(gs.Phase))
	for i := range gs.Players {
		p := gs.Players[i]
		write(int64(p.Coins))
		hand := append([]Role(nil), p.Hand...)
		sort.Slice(hand, func(a, b int) bool { return hand[a] < hand[b] })
		for _, r := range hand {
			write(int64(r))
		}
		for _, r := range p.Lost {
			write(int64(r))
		}
		write(-1)
	}
	if gs.Pending != nil {
		write(int64(gs.Pending.Kind))
		write(int64(gs.Pending.Actor))
		write(int64(gs.Pending.Target))
		write(int64(gs.Pending.Blocker))
		write(int64(gs.Pending.BlockRole))
	}
	return StateHash(h.Sum64())
}
