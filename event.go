package typedfsm

// Event is implemented by every concrete event type usable with a machine
// whose wrapper type is W.
//
// W is the closed sum type shared by all events of one machine. In Go this is
// usually a sealed interface whose variants are the event types themselves:
//
//	type Wrapper interface{ isWrapper() }
//
//	type Started struct{ At time.Time }
//
//	func (Started) isWrapper() {}
//	func (e Started) Wrap() Wrapper { return e }
//
// Wrap must be total and free of side effects.
type Event[W any] interface {
	Wrap() W
}
