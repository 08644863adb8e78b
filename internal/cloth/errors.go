package cloth

import "errors"

var (
	// ErrInvalidGrid is returned for non-positive grid dimensions or quad size.
	ErrInvalidGrid = errors.New("invalid cloth grid")

	// ErrInvalidObstacles is returned for a negative obstacle count or a
	// non-positive radius.
	ErrInvalidObstacles = errors.New("invalid obstacle set")

	// ErrInvalidTimeStep is returned for a non-positive or non-finite dt.
	ErrInvalidTimeStep = errors.New("invalid time step")

	// ErrDegenerate is returned when two interacting points coincide or a
	// point sits exactly on an obstacle center.
	ErrDegenerate = errors.New("degenerate geometry")
)
