package advisor

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"coup/game"
)

// EventKind tags what a transcript line reports.
type EventKind int

const (
	// EventMove is a move some seat was seen to play.
	EventMove EventKind = iota
	// EventHand re-pins the advised seat's own cards, e.g. after a redraw.
	EventHand
	// EventDrawn reports the two cards the advised seat drew in an exchange.
	EventDrawn
)

// Event is one observation made at the table. For EventMove the Move carries
// everything public about it; Held only applies to challenges and reports
// whether the challenged claim was proven. Roles carries the cards of
// EventHand and EventDrawn.
type Event struct {
	Kind   EventKind
	Player int
	Move   game.Move
	Held   bool
	Roles  []game.Role
}

var actionVerbs = map[string]game.Kind{
	"income":      game.Income,
	"foreignaid":  game.ForeignAid,
	"tax":         game.Tax,
	"exchange":    game.Exchange,
	"allow":       game.Allow,
	"steal":       game.Steal,
	"assassinate": game.Assassinate,
	"coup":        game.Coup,
}

// ParseEvent parses one transcript line. Lines are lowercase words:
//
//	2 steal 0            seat 2 steals from seat 0
//	1 block duke         seat 1 blocks claiming duke
//	0 challenge bluffed  seat 0 challenges; the claim turns out false
//	1 reveal contessa    seat 1 surrenders a contessa
//	1 keep duke captain  seat 1 keeps these after an exchange
//	1 keep               an opponent keeps unseen cards
//	hand duke captain    the advised seat's own cards
//	drawn duke assassin  the advised seat's exchange draw
func ParseEvent(line string) (Event, error) {
	tokens := strings.Fields(strings.ToLower(line))
	if len(tokens) == 0 {
		return Event{}, fmt.Errorf("empty event")
	}

	parseRoles := func(words []string) ([]game.Role, error) {
		roles := make([]game.Role, 0, len(words))
		for _, w := range words {
			r, err := game.ParseRole(w)
			if err != nil {
				return nil, err
			}
			roles = append(roles, r)
		}
		return roles, nil
	}

	switch tokens[0] {
	case "hand":
		roles, err := parseRoles(tokens[1:])
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: EventHand, Roles: roles}, nil
	case "drawn":
		roles, err := parseRoles(tokens[1:])
		if err != nil {
			return Event{}, err
		}
		return Event{Kind: EventDrawn, Roles: roles}, nil
	}

	seat, err := strconv.Atoi(tokens[0])
	if err != nil || seat < 0 {
		return Event{}, fmt.Errorf("bad seat %q", tokens[0])
	}
	if len(tokens) < 2 {
		return Event{}, fmt.Errorf("seat %d: missing move", seat)
	}
	ev := Event{Kind: EventMove, Player: seat}
	verb := tokens[1]

	switch verb {
	case "income", "foreignaid", "tax", "exchange", "allow":
		ev.Move = game.NewAction(actionVerbs[verb])
		return ev, nil
	case "steal", "assassinate", "coup":
		if len(tokens) < 3 {
			return Event{}, fmt.Errorf("%s: missing target", verb)
		}
		target, err := strconv.Atoi(tokens[2])
		if err != nil || target < 0 {
			return Event{}, fmt.Errorf("%s: bad target %q", verb, tokens[2])
		}
		ev.Move = game.NewTargeted(actionVerbs[verb], target)
		return ev, nil
	case "block":
		if len(tokens) < 3 {
			return Event{}, fmt.Errorf("block: missing role")
		}
		role, err := game.ParseRole(tokens[2])
		if err != nil {
			return Event{}, err
		}
		ev.Move = game.NewBlock(role)
		return ev, nil
	case "challenge":
		if len(tokens) < 3 || (tokens[2] != "held" && tokens[2] != "bluffed") {
			return Event{}, fmt.Errorf("challenge: expected held or bluffed")
		}
		ev.Move = game.NewAction(game.Challenge)
		ev.Held = tokens[2] == "held"
		return ev, nil
	case "reveal":
		if len(tokens) < 3 {
			return Event{}, fmt.Errorf("reveal: missing role")
		}
		role, err := game.ParseRole(tokens[2])
		if err != nil {
			return Event{}, err
		}
		ev.Move = game.NewReveal(role)
		return ev, nil
	case "keep":
		roles, err := parseRoles(tokens[2:])
		if err != nil {
			return Event{}, err
		}
		if len(roles) > 2 {
			return Event{}, fmt.Errorf("keep: at most two cards, got %d", len(roles))
		}
		if len(roles) == 2 && roles[0] > roles[1] {
			roles[0], roles[1] = roles[1], roles[0]
		}
		ev.Move = game.NewKeep(roles...)
		return ev, nil
	default:
		return Event{}, fmt.Errorf("unknown move %q", verb)
	}
}

// ParseTranscript reads one event per line, skipping blank lines and lines
// starting with '#'.
func ParseTranscript(r io.Reader) ([]Event, error) {
	var events []Event
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ev, err := ParseEvent(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return events, nil
}
