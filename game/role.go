package game

import "fmt"

// Role is one of the five Coup character cards.
type Role int

const (
	NoRole Role = iota
	Duke
	Assassin
	Captain
	Ambassador
	Contessa
)

const (
	NumRoles       = 5
	CopiesPerRole  = 3
	TotalInfluence = NumRoles * CopiesPerRole
)

var roleNames = map[Role]string{
	NoRole:     "none",
	Duke:       "duke",
	Assassin:   "assassin",
	Captain:    "captain",
	Ambassador: "ambassador",
	Contessa:   "contessa",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

func ParseRole(s string) (Role, error) {
	for r := Duke; r <= Contessa; r++ {
		if roleNames[r] == s {
			return r, nil
		}
	}
	return NoRole, fmt.Errorf("unknown role %q", s)
}

// NewDeck returns the full 15-card deck in a fixed order.
func NewDeck() []Role {
	deck := make([]Role, 0, TotalInfluence)
	for r := Duke; r <= Contessa; r++ {
		for i := 0; i < CopiesPerRole; i++ {
			deck = append(deck, r)
		}
	}
	return deck
}

// BlockersOf returns the roles that may block the given action kind.
func BlockersOf(kind Kind) []Role {
	switch kind {
	case ForeignAid:
		return []Role{Duke}
	case Assassinate:
		return []Role{Contessa}
	case Steal:
		return []Role{Captain, Ambassador}
	default:
		return nil
	}
}
