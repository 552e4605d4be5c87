package game

import "fmt"

// Kind tags the closed set of moves. Income through Coup are turn actions;
// the rest are meta-moves played inside a pending resolution.
type Kind int

const (
	Income Kind = iota
	ForeignAid
	Tax
	Steal
	Assassinate
	Exchange
	Coup
	Challenge
	Block
	Allow
	Reveal
	ExchangeKeep
)

// NoTarget marks moves without a target player.
const NoTarget = -1

var kindNames = map[Kind]string{
	Income:       "income",
	ForeignAid:   "foreignaid",
	Tax:          "tax",
	Steal:        "steal",
	Assassinate:  "assassinate",
	Exchange:     "exchange",
	Coup:         "coup",
	Challenge:    "challenge",
	Block:        "block",
	Allow:        "allow",
	Reveal:       "reveal",
	ExchangeKeep: "keep",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ClaimedRole returns the character a turn action claims, or NoRole.
// Foreign aid claims nothing and therefore cannot be challenged, only blocked.
func (k Kind) ClaimedRole() Role {
	switch k {
	case Tax:
		return Duke
	case Steal:
		return Captain
	case Assassinate:
		return Assassin
	case Exchange:
		return Ambassador
	default:
		return NoRole
	}
}

// Targeted reports whether the kind requires a target player.
func (k Kind) Targeted() bool {
	return k == Steal || k == Assassinate || k == Coup
}

// Move is a tagged variant: Kind plus the payload fields that apply to it.
// Target is set for Steal/Assassinate/Coup, Role for Block (the blocking
// claim) and Reveal (the surrendered card), Keep for ExchangeKeep. Moves are
// comparable so the searcher can key tree children by them.
type Move struct {
	Kind   Kind
	Target int
	Role   Role
	Keep   [2]Role
}

// NewAction builds an untargeted turn action or meta-move without payload.
func NewAction(kind Kind) Move {
	return Move{Kind: kind, Target: NoTarget}
}

// NewTargeted builds a Steal, Assassinate or Coup move.
func NewTargeted(kind Kind, target int) Move {
	return Move{Kind: kind, Target: target}
}

// NewBlock builds a block claiming the given role.
func NewBlock(role Role) Move {
	return Move{Kind: Block, Target: NoTarget, Role: role}
}

// NewReveal builds the surrender of one influence card.
func NewReveal(role Role) Move {
	return Move{Kind: Reveal, Target: NoTarget, Role: role}
}

// NewKeep builds the cards kept at the end of an exchange. One or two cards,
// matching the actor's hand size.
func NewKeep(cards ...Role) Move {
	m := Move{Kind: ExchangeKeep, Target: NoTarget}
	copy(m.Keep[:], cards)
	return m
}

// KeepCount returns how many cards an ExchangeKeep retains.
func (m Move) KeepCount() int {
	n := 0
	for _, r := range m.Keep {
		if r != NoRole {
			n++
		}
	}
	return n
}

func (m Move) String() string {
	switch m.Kind {
	case Steal, Assassinate, Coup:
		return fmt.Sprintf("%v %d", m.Kind, m.Target)
	case Block:
		return fmt.Sprintf("block %v", m.Role)
	case Reveal:
		return fmt.Sprintf("reveal %v", m.Role)
	case ExchangeKeep:
		if m.Keep[1] == NoRole {
			return fmt.Sprintf("keep %v", m.Keep[0])
		}
		return fmt.Sprintf("keep %v %v", m.Keep[0], m.Keep[1])
	default:
		return m.Kind.String()
	}
}
