package history

import (
	"errors"
	"fmt"
	"image"
)

// Step describes one edit to apply on top of the current state.
type Step struct {
	// Flag is the sticky effect this step sets, or NoFlag.
	Flag Flag

	// Update records the new control values on the next state. It receives a
	// copy of the current state and may be nil.
	Update func(next *State)

	// Render computes the new image from the pristine base image using the
	// already updated state (for example its cumulative Rotation).
	Render func(base *image.RGBA, next State) (*image.RGBA, error)
}

// Session is the edit history of one image.
type Session struct {
	base  *image.RGBA
	stack []State
}

// New starts a session on base, seeded with a single default state. The
// session keeps base for its whole lifetime and never writes to it.
func New(base *image.RGBA) *Session {
	s := &Session{base: base}
	s.Reset()
	return s
}

// Base returns the pristine image the session was created with.
func (s *Session) Base() *image.RGBA {
	return s.base
}

// Current returns the top of the stack.
func (s *Session) Current() State {
	return s.stack[len(s.stack)-1]
}

// Depth returns the number of states on the stack, at least 1.
func (s *Session) Depth() int {
	return len(s.stack)
}

// Apply renders step and pushes the result.
//
// If the step's sticky flag is already set on the current state, Apply
// returns the current state unchanged and pushes nothing. Otherwise the next
// state starts as a copy of the current one, gets the flag set and Update
// applied, and its image is rendered from the base image.
//
// Returns the new current state and whether a state was pushed. When Render
// fails nothing is pushed and the error is returned.
func (s *Session) Apply(step Step) (State, bool, error) {
	top := s.Current()
	if step.Flag != NoFlag && top.Has(step.Flag) {
		return top, false, nil
	}
	if step.Render == nil {
		return top, false, errors.New("edit step has no renderer")
	}

	next := top.With(step.Flag)
	if step.Update != nil {
		step.Update(&next)
	}

	img, err := step.Render(s.base, next)
	if err != nil {
		return top, false, fmt.Errorf("failed to render edit: %w", err)
	}
	next.Image = img

	s.stack = append(s.stack, next)
	return next, true, nil
}

// Undo drops the current state and returns the one below it. The seed state
// is never removed; at depth 1 Undo returns it and reports false.
func (s *Session) Undo() (State, bool) {
	if len(s.stack) <= 1 {
		return s.Current(), false
	}
	s.stack[len(s.stack)-1] = State{}
	s.stack = s.stack[:len(s.stack)-1]
	return s.Current(), true
}

// Reset discards every edit and reseeds the stack with the default state
// wrapping the base image.
func (s *Session) Reset() State {
	s.stack = []State{NewState(s.base)}
	return s.Current()
}
