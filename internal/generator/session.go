package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/huimingz/commitsmith/internal/commitlint"
	"github.com/huimingz/commitsmith/internal/log"
	"github.com/huimingz/commitsmith/internal/prompt"
	"github.com/huimingz/commitsmith/internal/provider"
)

// Result is what a session hands back to its caller
type Result struct {
	Message       string
	ViolatedRules []string
}

// Session is one run of the generation state machine. Only one operation may
// run at a time; a second concurrent call fails with ErrBusy.
type Session struct {
	id         string
	adapter    provider.Adapter
	model      string
	diff       prompt.DiffContext
	opts       prompt.Options
	timeout    time.Duration
	maxRetries int

	busy sync.Mutex

	mu           sync.RWMutex
	state        State
	err          error
	result       Result
	instructions []string
	lastMessage  string
	priorError   string
	invocations  int
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// Provider returns the id of the provider this session invokes
func (s *Session) Provider() string {
	return s.adapter.Descriptor().ID
}

// Model returns the model this session invokes
func (s *Session) Model() string {
	return s.model
}

// State returns the current state
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Err returns the failure reason once the session is Failed
func (s *Session) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Result returns the latest candidate. After a validation exhaustion it holds
// the rejected candidate and its violated rules.
func (s *Session) Result() Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

// Instructions returns a copy of the accumulated refinement instructions
func (s *Session) Instructions() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.instructions...)
}

// Invocations returns how many provider calls the session has made
func (s *Session) Invocations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invocations
}

// Start generates the first candidate. On success the session awaits a
// decision; on any failure it is Failed and the error is returned unchanged.
func (s *Session) Start(ctx context.Context) (Result, error) {
	if !s.busy.TryLock() {
		return Result{}, ErrBusy
	}
	defer s.busy.Unlock()

	if err := s.expect(StateIdle, "start"); err != nil {
		return Result{}, err
	}
	return s.run(ctx)
}

// Refine appends an instruction to the history and regenerates. Every
// earlier instruction is sent again, in order.
func (s *Session) Refine(ctx context.Context, instruction string) (Result, error) {
	instruction = strings.TrimSpace(instruction)
	if instruction == "" {
		return Result{}, ErrEmptyInstruction
	}

	if !s.busy.TryLock() {
		return Result{}, ErrBusy
	}
	defer s.busy.Unlock()

	if err := s.expect(StateAwaitingDecision, "refine"); err != nil {
		return Result{}, err
	}

	s.mu.Lock()
	s.instructions = append(s.instructions, instruction)
	s.mu.Unlock()

	return s.run(ctx)
}

// Accept ends the session with the current candidate
func (s *Session) Accept() (Result, error) {
	if !s.busy.TryLock() {
		return Result{}, ErrBusy
	}
	defer s.busy.Unlock()

	if err := s.expect(StateAwaitingDecision, "accept"); err != nil {
		return Result{}, err
	}
	s.transition(StateCommitted)
	return s.Result(), nil
}

// Abandon ends the session without a result. Terminal sessions cannot be
// abandoned.
func (s *Session) Abandon() error {
	if !s.busy.TryLock() {
		return ErrBusy
	}
	defer s.busy.Unlock()

	if state := s.State(); state.Terminal() {
		return fmt.Errorf("%w: cannot abandon a %s session", ErrInvalidState, state)
	}
	s.transition(StateAbandoned)
	return nil
}

func (s *Session) expect(want State, op string) error {
	if state := s.State(); state != want {
		return fmt.Errorf("%w: cannot %s a %s session", ErrInvalidState, op, state)
	}
	return nil
}

func (s *Session) transition(to State) {
	s.mu.Lock()
	from := s.state
	s.state = to
	s.mu.Unlock()

	log.DebugTransition(s.id, from.String(), to.String())
}

func (s *Session) fail(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()

	s.transition(StateFailed)
	return err
}

// run loops build, invoke, validate. The automatic retry counter is scoped to
// one user action, so one call makes at most maxRetries+1 invocations.
func (s *Session) run(ctx context.Context) (Result, error) {
	retries := 0
	for {
		s.transition(StateBuilding)
		p := prompt.Build(s.opts, s.input())
		log.DebugPrompt(p.System, p.User)

		if ctx.Err() != nil {
			return Result{}, s.fail(&provider.Error{
				Kind:     provider.ErrCancelled,
				Provider: s.Provider(),
				Err:      ctx.Err(),
			})
		}

		s.transition(StateInvoking)
		s.mu.Lock()
		s.invocations++
		s.mu.Unlock()

		res, err := s.adapter.Invoke(ctx, provider.InvokeRequest{
			Model:   s.model,
			System:  p.System,
			Prompt:  p.User,
			Timeout: s.timeout,
		})
		if err != nil {
			s.mu.Lock()
			s.result = Result{}
			s.mu.Unlock()
			return Result{}, s.fail(err)
		}
		log.DebugDuration("invoke "+s.Provider(), res.Elapsed)

		s.transition(StateValidating)
		message := Clean(res.Text)
		verdict := commitlint.Lint(message)

		s.mu.Lock()
		s.lastMessage = message
		if verdict.OK {
			s.priorError = ""
			s.result = Result{Message: message}
			s.mu.Unlock()

			s.transition(StateAwaitingDecision)
			return s.Result(), nil
		}

		rejected := Result{Message: message, ViolatedRules: verdict.Rules()}
		s.result = rejected
		if retries >= s.maxRetries {
			s.mu.Unlock()
			return rejected, s.fail(&ExhaustedError{
				Attempts:    retries + 1,
				LastMessage: message,
				Violations:  verdict.Violations,
			})
		}
		retries++
		for _, violation := range verdict.Violations {
			s.instructions = append(s.instructions, commitlint.Describe(violation))
		}
		s.priorError = verdict.Summary()
		s.mu.Unlock()

		log.Debug("Candidate rejected (%s), retry %d/%d", strings.Join(verdict.Rules(), ", "), retries, s.maxRetries)
	}
}

func (s *Session) input() prompt.Input {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in := prompt.Input{
		DiffContext: s.diff,
		PriorError:  s.priorError,
	}
	if len(s.instructions) > 0 {
		in.Refinement = &prompt.Refinement{
			LastMessage:  s.lastMessage,
			Instructions: append([]string(nil), s.instructions...),
		}
	}
	return in
}
