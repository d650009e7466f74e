package engine

import (
	"errors"
	"strings"
)

var (
	// ErrDefinitionNotFound reports a target or dependency with no
	// catalog entry.
	ErrDefinitionNotFound = errors.New("no definition in catalog")

	// ErrMissingThenClause reports a rule whose condition held but which
	// has no value expression.
	ErrMissingThenClause = errors.New("rule has no value clause")

	// ErrMissingOtherwiseClause reports a rule whose condition did not
	// hold and which has no otherwise expression.
	ErrMissingOtherwiseClause = errors.New("rule has no otherwise clause")

	// ErrDepthExceeded reports a dependency chain deeper than the
	// engine's configured bound.
	ErrDepthExceeded = errors.New("resolution depth exceeded")
)

// CycleError reports a dependency cycle. Path holds the attribute names
// from the first appearance of the repeated attribute back to itself.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Path, " -> ")
}
