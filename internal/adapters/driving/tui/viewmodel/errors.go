package viewmodel

import "errors"

// ErrSuperseded is returned by a refresh whose result was discarded because
// a newer refresh started.
var ErrSuperseded = errors.New("viewmodel: refresh superseded")

// ErrClosed is returned by refreshes on a closed view model.
var ErrClosed = errors.New("viewmodel: closed")
