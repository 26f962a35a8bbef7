package savequeue

import "errors"

// ErrCancelled is returned to a task's Wait() when it was cancelled
// before it began running.
var ErrCancelled = errors.New("savequeue: task cancelled")
