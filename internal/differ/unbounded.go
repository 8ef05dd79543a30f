package differ

// newUnboundedChan returns a send side backed by an internal growable
// queue and a receive side that never blocks the sender on a slow
// consumer. The pump goroutine exits once in is closed and the queue has
// drained, at which point it closes out.
//
// Plain buffered channels have a fixed capacity; the differ worker must
// never stall mid-scan waiting for the UI to catch up (spec.md §5), so
// the queue here grows without bound instead.
func newUnboundedChan[T any]() (chan<- T, <-chan T) {
	in := make(chan T)
	out := make(chan T)

	go func() {
		defer close(out)

		var queue []T
		inCh := in
		for inCh != nil || len(queue) > 0 {
			if len(queue) == 0 {
				v, ok := <-inCh
				if !ok {
					inCh = nil
					continue
				}
				queue = append(queue, v)
				continue
			}

			select {
			case v, ok := <-inCh:
				if !ok {
					inCh = nil
					continue
				}
				queue = append(queue, v)
			case out <- queue[0]:
				queue = queue[1:]
			}
		}
	}()

	return in, out
}
