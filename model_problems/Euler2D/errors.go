package Euler2D

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrNonPhysicalState indicates a state with non-positive density or pressure.
	ErrNonPhysicalState = errors.New("euler2d: non-physical state (density or pressure not positive)")

	// ErrWaveOrdering indicates a Riemann solver found wave speeds matching no region.
	ErrWaveOrdering = errors.New("euler2d: inconsistent wave speed ordering")
)

// StateError carries the offending density and pressure of a non-physical state.
type StateError struct {
	Rho, P float64
}

func (e *StateError) Error() string {
	return fmt.Sprintf("%v: rho = %g, p = %g", ErrNonPhysicalState, e.Rho, e.P)
}

func (e *StateError) Unwrap() error {
	return ErrNonPhysicalState
}

// CellError wraps a failure found while processing a cell.
type CellError struct {
	Cell    int
	Wrapped error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell %d: %v", e.Cell, e.Wrapped)
}

func (e *CellError) Unwrap() error {
	return e.Wrapped
}

// FaceError wraps a failure found while computing the flux across a face.
type FaceError struct {
	Face, Left, Right int
	Wrapped           error
}

func (e *FaceError) Error() string {
	return fmt.Sprintf("face %d (left cell %d, right cell %d): %v", e.Face, e.Left, e.Right, e.Wrapped)
}

func (e *FaceError) Unwrap() error {
	return e.Wrapped
}

// RunStatus holds the first error reported during a run. Once set it is never cleared.
type RunStatus struct {
	mu  sync.Mutex
	err error
}

// Report records err unless an earlier error was already recorded. It returns the recorded error.
func (rs *RunStatus) Report(err error) error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if rs.err == nil && err != nil {
		rs.err = err
	}
	return rs.err
}

func (rs *RunStatus) Err() error {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.err
}

func (rs *RunStatus) Failed() bool {
	return rs.Err() != nil
}
