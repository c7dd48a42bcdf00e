package alerts

import "errors"

// ErrCapacityExceeded rejects alert creation while the ceiling of
// concurrently active alerts is reached. Callers should retry later.
var ErrCapacityExceeded = errors.New("too many active alerts")
