package pubsub

import "context"

// Listener is a long-lived subscription that hands events to a callback.
type Listener[T any] struct {
	ch   <-chan Event[T]
	done chan struct{}
}

// Listen subscribes to s and calls fn for every event until ctx is done or
// the subscription channel closes. fn runs on the listener goroutine.
func Listen[T any](ctx context.Context, s Subscriber[T], fn func(Event[T])) *Listener[T] {
	l := &Listener[T]{
		ch:   s.Subscribe(ctx),
		done: make(chan struct{}),
	}
	go func() {
		defer close(l.done)
		for event := range l.ch {
			fn(event)
		}
	}()
	return l
}

// Done is closed once the listener has stopped delivering events.
func (l *Listener[T]) Done() <-chan struct{} {
	return l.done
}
