// Package advisor tracks a live Coup game from one seat's point of view.
// Observed table events are replayed onto a working state whose hidden slots
// hold placeholder cards; searches mask the placeholders away through the
// seat's information set, so only genuinely observed cards ever matter.
package advisor

import (
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/exp/rand"

	"coup/game"
)

// Session is the event-sourced view of one running game.
type Session struct {
	viewer int
	state  *game.GameState
	logger zerolog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithLogger attaches a logger for per-event debug output.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSeed seeds the randomness used for placeholder draws during replay.
// The placeholders are masked before every search, so the seed only affects
// internals, never advice.
func WithSeed(seed uint64) Option {
	return func(s *Session) {
		s.state.SetRand(rand.New(rand.NewSource(seed)))
	}
}

// NewSession starts tracking a fresh game. hand is the advised seat's two
// dealt cards; every other hidden slot is filled with placeholders.
func NewSession(numPlayers, viewer int, hand []game.Role, options ...Option) (*Session, error) {
	if viewer < 0 || viewer >= numPlayers {
		return nil, fmt.Errorf("viewer seat %d out of range for %d players", viewer, numPlayers)
	}
	if len(hand) != 2 {
		return nil, fmt.Errorf("a starting hand holds 2 cards, got %d", len(hand))
	}

	state := game.NewGameState(numPlayers, rand.New(rand.NewSource(1)))
	s := &Session{
		viewer: viewer,
		state:  state,
		logger: zerolog.Nop(),
	}
	for _, o := range options {
		o(s)
	}
	if err := s.reshapeHand(viewer, hand, game.NoRole); err != nil {
		return nil, err
	}
	return s, nil
}

// Viewer returns the advised seat.
func (s *Session) Viewer() int { return s.viewer }

// Player returns the seat expected to act next.
func (s *Session) Player() int { return s.state.Player() }

// Winner returns the surviving seat, or game.NoTarget while the game runs.
func (s *Session) Winner() int { return s.state.Winner() }

// Perspective returns the advised seat's current information set, ready to
// hand to a searcher.
func (s *Session) Perspective() *game.InformationSet {
	return s.state.PerspectiveOf(s.viewer)
}

// Replay applies a batch of events in order.
func (s *Session) Replay(events []Event) error {
	for i, ev := range events {
		if err := s.Apply(ev); err != nil {
			return fmt.Errorf("event %d: %w", i+1, err)
		}
	}
	return nil
}

// Apply folds one observed event into the tracked state. Events that
// contradict earlier observations or deck composition fail with
// game.ErrInconsistentObservation.
func (s *Session) Apply(ev Event) error {
	switch ev.Kind {
	case EventHand:
		return s.applyHand(ev.Roles)
	case EventDrawn:
		return s.applyDrawn(ev.Roles)
	case EventMove:
		return s.applyMove(ev)
	default:
		return fmt.Errorf("unknown event kind %d", ev.Kind)
	}
}

func (s *Session) applyMove(ev Event) error {
	if s.state.Winner() != game.NoTarget {
		return fmt.Errorf("%w: move observed after the game ended", game.ErrInconsistentObservation)
	}
	if ev.Player != s.state.Player() {
		return fmt.Errorf("%w: expected seat %d to act, observed seat %d",
			game.ErrInconsistentObservation, s.state.Player(), ev.Player)
	}

	m := ev.Move
	switch m.Kind {
	case game.Challenge:
		// The challenge outcome tells us whether the claimant holds the
		// claimed role. Pin the placeholder hand to match before resolving.
		claimant, claim, err := s.pendingClaim()
		if err != nil {
			return err
		}
		if claimant == s.viewer {
			if holds(s.state.Players[claimant].Hand, claim) != ev.Held {
				return fmt.Errorf("%w: challenge outcome contradicts our own hand",
					game.ErrInconsistentObservation)
			}
		} else if ev.Held {
			if err := s.reshapeHand(claimant, []game.Role{claim}, game.NoRole); err != nil {
				return err
			}
		} else {
			if err := s.reshapeHand(claimant, nil, claim); err != nil {
				return err
			}
		}
	case game.Reveal:
		// A surrendered card is public: make sure the placeholder hand
		// actually contains it.
		if ev.Player != s.viewer {
			if err := s.reshapeHand(ev.Player, []game.Role{m.Role}, game.NoRole); err != nil {
				return err
			}
		}
	case game.ExchangeKeep:
		// An opponent's keep decision is hidden. Any legal keep preserves the
		// public state (hand size, deck size), so apply the first one.
		if ev.Player != s.viewer {
			legal := s.state.LegalMoves()
			if len(legal) == 0 {
				return fmt.Errorf("%w: no exchange in progress", game.ErrInconsistentObservation)
			}
			m = legal[0]
		}
	}

	next, err := s.state.Play(m)
	if err != nil {
		return err
	}
	s.state = next
	s.logger.Debug().
		Int("seat", ev.Player).
		Stringer("move", m).
		Msg("Applied observed move")
	return nil
}

// applyHand re-pins the advised seat's own cards, e.g. after drawing a
// replacement for a proven claim.
func (s *Session) applyHand(roles []game.Role) error {
	if len(roles) != len(s.state.Players[s.viewer].Hand) {
		return fmt.Errorf("%w: hand has %d cards, observed %d",
			game.ErrInconsistentObservation, len(s.state.Players[s.viewer].Hand), len(roles))
	}
	return s.reshapeHand(s.viewer, roles, game.NoRole)
}

// applyDrawn pins the advised seat's exchange draw.
func (s *Session) applyDrawn(roles []game.Role) error {
	pending := s.state.Pending
	if s.state.Phase != game.PhaseExchange || pending == nil || pending.Actor != s.viewer {
		return fmt.Errorf("%w: no exchange draw to pin", game.ErrInconsistentObservation)
	}
	if len(roles) != len(pending.Drawn) {
		return fmt.Errorf("%w: exchange draws %d cards, observed %d",
			game.ErrInconsistentObservation, len(pending.Drawn), len(roles))
	}
	deck := append(append([]game.Role(nil), s.state.Deck...), pending.Drawn...)
	for _, r := range roles {
		next, _, ok := s.takeFrom(deck, matches(r), nil)
		if !ok {
			return fmt.Errorf("%w: no copy of %v left for the observed draw",
				game.ErrInconsistentObservation, r)
		}
		deck = next
	}
	pending.Drawn = append([]game.Role(nil), roles...)
	s.state.Deck = deck
	return nil
}

// pendingClaim identifies whose claim a challenge right now would test.
func (s *Session) pendingClaim() (claimant int, claim game.Role, err error) {
	pending := s.state.Pending
	switch s.state.Phase {
	case game.PhaseRespond:
		return pending.Actor, pending.Kind.ClaimedRole(), nil
	case game.PhaseRespondBlock:
		return pending.Blocker, pending.BlockRole, nil
	default:
		return 0, game.NoRole, fmt.Errorf("%w: nothing to challenge", game.ErrInconsistentObservation)
	}
}

// reshapeHand rebuilds a hidden hand so it contains every role in require and
// no copy of avoid, swapping cards through the deck to keep the 15-card
// multiset intact. The hand keeps its size.
func (s *Session) reshapeHand(player int, require []game.Role, avoid game.Role) error {
	size := len(s.state.Players[player].Hand)
	if len(require) > size {
		return fmt.Errorf("%w: %d observed cards do not fit a %d-card hand",
			game.ErrInconsistentObservation, len(require), size)
	}
	exclude := map[int]bool{player: true}
	deck := append(append([]game.Role(nil), s.state.Deck...), s.state.Players[player].Hand...)
	hand := make([]game.Role, 0, size)
	for _, r := range require {
		next, _, ok := s.takeFrom(deck, matches(r), exclude)
		if !ok {
			return fmt.Errorf("%w: no copy of %v left for observed card",
				game.ErrInconsistentObservation, r)
		}
		deck = next
		hand = append(hand, r)
	}
	for len(hand) < size {
		next, card, ok := s.takeFrom(deck, func(c game.Role) bool { return c != avoid }, exclude)
		if !ok {
			return fmt.Errorf("%w: every remaining card is a %v",
				game.ErrInconsistentObservation, avoid)
		}
		deck = next
		hand = append(hand, card)
	}
	s.state.Players[player].Hand = hand
	s.state.Deck = deck
	return nil
}

// takeFrom removes one card satisfying want from the working deck. If the
// deck has none, it trades a matching card out of another placeholder hand
// for an arbitrary deck card; placeholder identities never reach a search, so
// the trade is free. exclude lists seats whose hands must stay untouched, the
// advised seat's real hand always does.
func (s *Session) takeFrom(deck []game.Role, want func(game.Role) bool, exclude map[int]bool) ([]game.Role, game.Role, bool) {
	for i, c := range deck {
		if want(c) {
			return append(deck[:i], deck[i+1:]...), c, true
		}
	}
	if len(deck) == 0 {
		return deck, game.NoRole, false
	}
	for p := range s.state.Players {
		if p == s.viewer || exclude[p] {
			continue
		}
		hand := s.state.Players[p].Hand
		for i, c := range hand {
			if want(c) {
				hand[i] = deck[len(deck)-1]
				return deck[:len(deck)-1], c, true
			}
		}
	}
	return deck, game.NoRole, false
}

func matches(role game.Role) func(game.Role) bool {
	return func(c game.Role) bool { return c == role }
}

func holds(hand []game.Role, role game.Role) bool {
	return indexOf(hand, role) >= 0
}

func indexOf(cards []game.Role, role game.Role) int {
	for i, r := range cards {
		if r == role {
			return i
		}
	}
	return -1
}
