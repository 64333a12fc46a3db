package cart

// Event kinds emitted to a Notifier.
const (
	EventAdded   = "added"
	EventCleared = "cleared"
)

// Event is a user-facing confirmation, e.g. "Burger added to cart".
type Event struct {
	Kind     string `json:"kind"`
	Title    string `json:"title,omitempty"`
	Quantity int    `json:"quantity,omitempty"`
}

// Notifier receives cart confirmations. Implementations must not block the
// caller.
type Notifier interface {
	Notify(Event)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Event)

func (f NotifierFunc) Notify(e Event) { f(e) }

// ChannelNotifier delivers events to a buffered channel and drops them when
// the channel is full.
type ChannelNotifier chan Event

func (ch ChannelNotifier) Notify(e Event) {
	select {
	case ch <- e:
	default:
	}
}
