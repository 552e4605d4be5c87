package game

import (
	"fmt"

	"golang.org/x/exp/rand"
)

// InformationSet is the restriction of a GameState visible to one player:
// their own cards exactly, opponents' hand sizes, and everything public.
type InformationSet struct {
	Viewer int
	Hand   []Role // the viewer's actual cards
	Drawn  []Role // exchange draw, set when the viewer is mid-exchange
	Sizes  []int  // hand sizes per seat
	Public *GameState
}

// PerspectiveOf masks the state down to what the given player can see.
func (gs *GameState) PerspectiveOf(viewer int) *InformationSet {
	is := &InformationSet{
		Viewer: viewer,
		Hand:   append([]Role(nil), gs.Players[viewer].Hand...),
		Sizes:  make([]int, len(gs.Players)),
	}
	for i := range gs.Players {
		is.Sizes[i] = len(gs.Players[i].Hand)
	}
	public := gs.Copy()
	for i := range public.Players {
		public.Players[i].Hand = nil
	}
	public.Deck = nil
	if public.Pending != nil && len(public.Pending.Drawn) > 0 {
		if public.Pending.Actor == viewer {
			is.Drawn = append([]Role(nil), gs.Pending.Drawn...)
		}
		public.Pending.Drawn = nil
	}
	is.Public = public
	return is
}

// Determinize samples a full state consistent with the information set:
// unseen cards are dealt uniformly at random to opponents' hand slots and
// the deck, preserving the viewer's hand and per-role multiplicity. Call it
// fresh on every search iteration.
func (is *InformationSet) Determinize(rng *rand.Rand) (*GameState, error) {
	unseen, err := is.unseenCards()
	if err != nil {
		return nil, err
	}
	rng.Shuffle(len(unseen), func(i, j int) {
		unseen[i], unseen[j] = unseen[j], unseen[i]
	})

	gs := is.Public.Copy()
	gs.rng = rng
	for p := range gs.Players {
		if p == is.Viewer {
			gs.Players[p].Hand = append([]Role(nil), is.Hand...)
			continue
		}
		n := is.Sizes[p]
		if n > len(unseen) {
			return nil, fmt.Errorf("%w: %d unseen cards cannot fill %d hand slots",
				ErrInconsistentObservation, len(unseen), n)
		}
		gs.Players[p].Hand = append([]Role(nil), unseen[:n]...)
		unseen = unseen[n:]
	}
	if gs.Phase == PhaseExchange {
		if is.Drawn != nil {
			gs.Pending.Drawn = append([]Role(nil), is.Drawn...)
		} else {
			gs.Pending.Drawn = append([]Role(nil), unseen[:2]...)
			unseen = unseen[2:]
		}
	}
	gs.Deck = unseen
	return gs, nil
}

// unseenCards is the full deck minus every card the viewer has seen: their
// own hand, their exchange draw, and all face-up cards.
func (is *InformationSet) unseenCards() ([]Role, error) {
	counts := map[Role]int{}
	for r := Duke; r <= Contessa; r++ {
		counts[r] = CopiesPerRole
	}
	remove := func(r Role, where string) error {
		counts[r]--
		if counts[r] < 0 {
			return fmt.Errorf("%w: more than %d copies of %v (%s)",
				ErrInconsistentObservation, CopiesPerRole, r, where)
		}
		return nil
	}
	for p := range is.Public.Players {
		for _, r := range is.Public.Players[p].Lost {
			if err := remove(r, "revealed"); err != nil {
				return nil, err
			}
		}
	}
	for _, r := range is.Hand {
		if err := remove(r, "own hand"); err != nil {
			return nil, err
		}
	}
	for _, r := range is.Drawn {
		if err := remove(r, "exchange draw"); err != nil {
			return nil, err
		}
	}
	var unseen []Role
	for r := Duke; r <= Contessa; r++ {
		for i := 0; i < counts[r]; i++ {
			unseen = append(unseen, r)
		}
	}
	return unseen, nil
}

// Validate checks the information set against deck composition without
// sampling anything.
func (is *InformationSet) Validate() error {
	unseen, err := is.unseenCards()
	if err != nil {
		return err
	}
	needed := 0
	for p, n := range is.Sizes {
		if p != is.Viewer {
			needed += n
		}
	}
	if is.Public.Phase == PhaseExchange && is.Drawn == nil {
		needed += 2
	}
	if needed > len(unseen) {
		return fmt.Errorf("%w: %d unseen cards cannot fill %d hidden slots",
			ErrInconsistentObservation, len(unseen), needed)
	}
	return nil
}

// LegalMoves returns the viewer's legal moves. Legality for the player to
// move depends only on information the viewer holds, so the result and its
// order are the same in every determinization.
func (is *InformationSet) LegalMoves() []Move {
	gs, err := is.Determinize(rand.New(rand.NewSource(1)))
	if err != nil {
		return nil
	}
	return gs.LegalMoves()
}
