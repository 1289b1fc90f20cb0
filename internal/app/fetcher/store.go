package fetcher

import (
	"context"
	"sync"

	"github.com/looplab/fsm"

	"logview/internal/app/errors"
	"logview/internal/app/hit"
	"logview/internal/app/query"
	"logview/internal/config/logger"
)

// FSM states
const (
	Idle    = "idle"
	Loading = "loading"
	Success = "success"
	Failure = "failure"
)

// FSM events
const (
	Fetch   = "fetch"
	Succeed = "succeed"
	Fail    = "fail"
)

// Request is an issued fetch. Only the latest issued Seq may resolve the store.
type Request struct {
	Seq    uint64
	Filter query.Filter
	Ctx    context.Context
}

// Store holds the loading/success/failure state of the results
type Store struct {
	mu     sync.Mutex
	fsm    *fsm.FSM
	seq    uint64
	filter query.Filter
	hits   []hit.Hit
	err    error
	cancel context.CancelFunc
	log    logger.Logger
}

// NewStore creates an idle store
func NewStore(log logger.Logger) *Store {
	s := &Store{log: log.WithComponent("STORE")}
	s.fsm = newFetchFSM(s.log)

	return s
}

func newFetchFSM(log logger.Logger) *fsm.FSM {
	return fsm.NewFSM(
		Idle,
		fsm.Events{
			{Name: Fetch, Src: []string{Idle, Loading, Success, Failure}, Dst: Loading},
			{Name: Succeed, Src: []string{Loading}, Dst: Success},
			{Name: Fail, Src: []string{Loading}, Dst: Failure},
		},
		fsm.Callbacks{
			"after_event": func(ctx context.Context, e *fsm.Event) {
				log.Debug().Msgf("STATE %s → %s (trigger: %s)", e.Src, e.Dst, e.Event)
			},
		},
	)
}

// Begin issues a new request, cancelling the context of the previous one
func (s *Store) Begin(parent context.Context, filter query.Filter) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel
	s.seq++
	s.filter = filter.Clone()

	s.event(Fetch)

	return Request{Seq: s.seq, Filter: s.filter, Ctx: ctx}
}

// Resolve applies the outcome of request seq. Results of superseded requests are dropped
// and Resolve returns false. A failure keeps the previous hits.
func (s *Store) Resolve(seq uint64, hits []hit.Hit, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq != s.seq || s.fsm.Current() != Loading {
		s.log.Debug().Uint64("seq", seq).Uint64("latest", s.seq).Msg("Dropping stale result")
		return false
	}

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if err != nil {
		s.err = err
		s.event(Fail)

		return true
	}

	s.hits = hits
	s.err = nil
	s.event(Succeed)

	return true
}

// Cancel aborts the in-flight request, if any
func (s *Store) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// State returns the current FSM state
func (s *Store) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.fsm.Current()
}

// Loading reports whether a request is in flight
func (s *Store) Loading() bool {
	return s.State() == Loading
}

// Hits returns the last successfully fetched hits
func (s *Store) Hits() []hit.Hit {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hits
}

// Err returns the error of the last resolved request, nil after a success
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.err
}

// Seq returns the latest issued sequence number
func (s *Store) Seq() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.seq
}

// Filter returns the filter of the latest issued request
func (s *Store) Filter() query.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.filter.Clone()
}

func (s *Store) event(name string) {
	if err := s.fsm.Event(context.Background(), name); err != nil {
		var noTransition fsm.NoTransitionError
		if !errors.As(err, &noTransition) {
			s.log.Error().Err(err).Msgf("Failed to fire %s", name)
		}
	}
}
