package catalog

import "errors"

// ErrWrite marks catalog write failures. Indexing treats these as hard
// failures: the run aborts and the store keeps its last committed batch.
var ErrWrite = errors.New("catalog write error")
