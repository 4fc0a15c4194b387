package pipeline

import "errors"

var (
	// ErrInvalidState means the operation is not defined for the project's
	// current stage.
	ErrInvalidState = errors.New("operation not valid in current stage")

	// ErrValidation means required project fields are missing for the
	// requested transition. The stage does not change.
	ErrValidation = errors.New("validation failed")

	// ErrNoCharacters is the recoverable empty-cast result: the script was
	// analysed but no characters came back. The project returns to the
	// stage the submission came from.
	ErrNoCharacters = errors.New("no characters found in script")
)
