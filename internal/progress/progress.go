// Package progress defines the event type emitted by long-running
// operations (indexing, batch matching, bulk copies). Producers send an
// Event after each completed unit of work; consumers may render it, log
// it, or discard it. A nil channel disables reporting.
package progress

// Event reports incremental completion of a batch operation.
type Event struct {
	Processed int
	Total     int
	Current   string
}

// Emit sends an event on ch without blocking when ch is nil.
func Emit(ch chan<- Event, processed, total int, current string) {
	if ch == nil {
		return
	}
	ch <- Event{Processed: processed, Total: total, Current: current}
}
