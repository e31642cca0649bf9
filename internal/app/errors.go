// Package app implements the primary port services (the application layer).
package app

import "errors"

// ErrValidation marks hard business-rule violations: a missing required
// supporting fact on a direct completion, a malformed status or date, an
// empty decision note where one is required. Operations failing this way
// mutate nothing. Callers match it with errors.Is; the wrapped message is
// human-readable and stable.
var ErrValidation = errors.New("validation failed")
