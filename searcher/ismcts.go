package searcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"coup/game"
)

// MaxCutoff bounds rollout length when no cutoff is configured.
const MaxCutoff = 1000

type Option func(*ISMCTS)

// ISMCTS runs Information-Set Monte Carlo Tree Search: every episode
// samples a fresh determinization of the root information set, then runs
// one select/expand/simulate/backup pass over a tree shared across
// determinizations.
type ISMCTS struct {
	iterations  int
	duration    time.Duration
	goroutines  int
	exploration float64
	cutoff      int
	seed        uint64
	evaluate    game.Evaluate
	metrics     Collector
}

func WithIterations(iterations int) Option {
	return func(s *ISMCTS) {
		if iterations > 0 {
			s.iterations = iterations
		}
	}
}

func WithDuration(duration time.Duration) Option {
	return func(s *ISMCTS) {
		if duration > 0 {
			s.duration = duration
		}
	}
}

// WithGoroutines enables root parallelization: each goroutine searches a
// private tree and root statistics are merged at the end.
func WithGoroutines(goroutines int) Option {
	return func(s *ISMCTS) {
		if goroutines > 0 {
			s.goroutines = goroutines
		}
	}
}

func WithExploration(c float64) Option {
	return func(s *ISMCTS) {
		if c > 0 {
			s.exploration = c
		}
	}
}

func WithCutoff(depth int) Option {
	return func(s *ISMCTS) {
		if depth > 0 {
			s.cutoff = depth
		}
	}
}

// WithSeed fixes the randomness for reproducible searches.
func WithSeed(seed uint64) Option {
	return func(s *ISMCTS) {
		s.seed = seed
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(s *ISMCTS) {
		if evaluate != nil {
			s.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(s *ISMCTS) {
		s.metrics = NewCollector()
	}
}

func NewISMCTS(options ...Option) *ISMCTS {
	s := &ISMCTS{ // Default values
		goroutines:  1,
		exploration: DefaultExploration,
		cutoff:      MaxCutoff,
		seed:        uint64(time.Now().UnixNano()),
		evaluate:    game.EvaluateInfluence,
		metrics:     NewDummyCollector(),
	}
	for _, option := range options {
		option(s)
	}
	if s.iterations <= 0 && s.duration <= 0 {
		panic("Must specify search iterations or duration")
	}
	return s
}

// Search computes a recommendation for the information set's viewer. It
// stops when the iteration budget is spent, the duration elapses, or ctx is
// cancelled, whichever comes first, and always returns a legal move: with
// zero completed episodes it falls back to a uniform random choice.
func (s *ISMCTS) Search(ctx context.Context, info *game.InformationSet) (Recommendation, error) {
	if err := info.Validate(); err != nil {
		return Recommendation{}, err
	}
	legal := info.LegalMoves()
	if len(legal) == 0 {
		return Recommendation{}, fmt.Errorf("no legal moves for player %d", info.Viewer)
	}

	if s.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.duration)
		defer cancel()
	}

	s.metrics.Start(s.goroutines, s.cutoff)
	trees := make([]*tree, s.goroutines)

	share := 0 // 0 means unbounded, the deadline stops the workers
	if s.iterations > 0 {
		share = (s.iterations + s.goroutines - 1) / s.goroutines
	}

	var wg sync.WaitGroup
	for w := 0; w < s.goroutines; w++ {
		trees[w] = newTree()
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(s.seed + uint64(w)*0x9e3779b97f4a7c15))
			for i := 0; share == 0 || i < share; i++ {
				select {
				case <-ctx.Done():
					return
				default:
				}
				s.runEpisode(trees[w], info, rng)
				s.metrics.AddEpisode()
			}
		}(w)
	}
	wg.Wait()
	metric := s.metrics.Complete()

	rec := extract(trees, legal, metric)
	if rec.Fallback {
		rng := rand.New(rand.NewSource(s.seed))
		rec.Best = legal[rng.Intn(len(legal))]
		log.Warn().Int("viewer", info.Viewer).
			Msg("budget exhausted before any episode, returning a uniform random move")
	}
	return rec, nil
}

// runEpisode is one ISMCTS iteration: determinize, select, expand,
// simulate, backpropagate.
func (s *ISMCTS) runEpisode(t *tree, info *game.InformationSet, rng *rand.Rand) {
	state, err := info.Determinize(rng)
	if err != nil {
		// Validate passed before the search started, so this is a defect.
		panic(fmt.Sprintf("determinization failed mid-search: %v", err))
	}

	// Select down the tree, restricted to moves legal under this
	// determinization, until an untried move or a terminal state.
	cur := int32(0)
	for {
		legal := state.LegalMoves()
		if len(legal) == 0 {
			break
		}
		if i := t.untriedMove(cur, legal); i >= 0 {
			mover := state.Player()
			state = mustPlay(state, legal[i])
			cur = t.addChild(cur, legal[i], mover)
			break
		}
		child := t.selectChild(cur, legal, s.exploration)
		state = mustPlay(state, t.nodes[child].move)
		cur = child
	}

	// Simulate with a uniform random default policy, as an explicit
	// bounded loop.
	depth := 0
	for depth < s.cutoff {
		legal := state.LegalMoves()
		if len(legal) == 0 {
			break
		}
		state = mustPlay(state, legal[rng.Intn(len(legal))])
		depth++
	}

	var rewards game.Rewards
	if state.Winner() != game.NoTarget {
		rewards = game.TerminalRewards(state)
		s.metrics.AddFullPlayout()
	} else {
		rewards = s.evaluate(state)
	}
	t.backup(cur, rewards)
}

// mustPlay applies a move the searcher generated itself. Failure here means
// the legal-move and transition functions disagree, which is a modeling bug
// and must not be recovered.
func mustPlay(state *game.GameState, m game.Move) *game.GameState {
	next, err := state.Play(m)
	if err != nil {
		panic(fmt.Sprintf("search generated an illegal move %v: %v", m, err))
	}
	return next
}
