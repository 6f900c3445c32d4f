package chess

import "errors"

var (
	ErrInvalidCell     = errors.New("invalid cell")
	ErrInvalidPosition = errors.New("invalid position")
	ErrIllegalMove     = errors.New("illegal move")
	ErrInvalidState    = errors.New("invalid state")
)
