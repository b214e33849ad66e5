package layout

import (
	"container/heap"
	"sync"

	"golang.org/x/net/html"
)

// Event is delivered to listeners of an event target.
type Event struct {
	Type     string
	Target   *html.Node // element the event was fired at, nil for page events
	Anchor   *html.Node // for hyperlink events
	Href     string     // for hyperlink events
	priority uint8
	index    int // maintained by the heap.Interface methods
}

// NewEvent creates an event of type typ for target.
func NewEvent(typ string, target *html.Node) *Event {
	return &Event{Type: typ, Target: target}
}

// WithPriority sets the priority of an event. Events with higher priority
// are delivered first.
func (e *Event) WithPriority(prio uint8) *Event {
	e.priority = prio
	return e
}

// Listener reacts to events. Errors returned by listeners are traced and
// otherwise ignored.
type Listener func(*Event) error

// ListenerID identifies a registered listener.
type ListenerID int

type listenerKey struct {
	target *html.Node
	typ    string
}

type registration struct {
	id       ListenerID
	listener Listener
}

// EventTarget manages listeners and delivers events. The zero value is
// ready to use.
type EventTarget struct {
	mutex     sync.Mutex
	lastID    ListenerID
	listeners map[listenerKey][]registration
	queue     EventQ
}

// AddEventListener registers l for page events of type typ.
func (et *EventTarget) AddEventListener(typ string, l Listener) ListenerID {
	return et.AddElementListener(nil, typ, l)
}

// AddElementListener registers l for events of type typ fired at elem.
func (et *EventTarget) AddElementListener(elem *html.Node, typ string, l Listener) ListenerID {
	et.mutex.Lock()
	defer et.mutex.Unlock()
	if et.listeners == nil {
		et.listeners = make(map[listenerKey][]registration)
	}
	et.lastID++
	key := listenerKey{target: elem, typ: typ}
	et.listeners[key] = append(et.listeners[key], registration{id: et.lastID, listener: l})
	return et.lastID
}

// RemoveEventListener unregisters a listener.
func (et *EventTarget) RemoveEventListener(id ListenerID) {
	et.mutex.Lock()
	defer et.mutex.Unlock()
	for key, regs := range et.listeners {
		for i, r := range regs {
			if r.id == id {
				et.listeners[key] = append(regs[:i:i], regs[i+1:]...)
				return
			}
		}
	}
}

// ListenerCount returns the number of listeners for events of type typ
// fired at elem (nil for page events).
func (et *EventTarget) ListenerCount(elem *html.Node, typ string) int {
	et.mutex.Lock()
	defer et.mutex.Unlock()
	return len(et.listeners[listenerKey{target: elem, typ: typ}])
}

// Post queues an event without delivering it.
func (et *EventTarget) Post(e *Event) {
	et.mutex.Lock()
	defer et.mutex.Unlock()
	heap.Push(&et.queue, e)
}

// DispatchEvent queues e and delivers all queued events.
func (et *EventTarget) DispatchEvent(e *Event) {
	et.Post(e)
	et.Drain()
}

// FireElementEvent dispatches an event of type typ at elem.
func (et *EventTarget) FireElementEvent(elem *html.Node, typ string) {
	et.DispatchEvent(NewEvent(typ, elem))
}

// Drain delivers queued events in order of priority. Listeners may post
// further events; these are delivered within the same call.
func (et *EventTarget) Drain() {
	for {
		e, regs := et.next()
		if e == nil {
			return
		}
		for _, r := range regs {
			if err := r.listener(e); err != nil {
				tracer().Errorf("listener for %q failed: %v", e.Type, err)
			}
		}
	}
}

func (et *EventTarget) next() (*Event, []registration) {
	et.mutex.Lock()
	defer et.mutex.Unlock()
	if et.queue.Len() == 0 {
		return nil, nil
	}
	e := heap.Pop(&et.queue).(*Event)
	regs := et.listeners[listenerKey{target: e.Target, typ: e.Type}]
	snapshot := make([]registration, len(regs))
	copy(snapshot, regs)
	return e, snapshot
}

// --- Event Queue -----------------------------------------------------------

// EventQ implements heap.Interface and holds events. Callers synchronize
// access.
type EventQ struct {
	events []*Event
	seq    []uint64 // insertion order, keeps delivery stable for equal priorities
	count  uint64
}

// Len is part of interface container/heap.
func (q EventQ) Len() int { return len(q.events) }

// Less is part of interface container/heap.
func (q EventQ) Less(i, j int) bool {
	// We want Pop to give us the highest, not lowest, priority so we use greater than here.
	if q.events[i].priority != q.events[j].priority {
		return q.events[i].priority > q.events[j].priority
	}
	return q.seq[i] < q.seq[j]
}

// Swap is part of interface container/heap.
func (q EventQ) Swap(i, j int) {
	q.events[i], q.events[j] = q.events[j], q.events[i]
	q.seq[i], q.seq[j] = q.seq[j], q.seq[i]
	q.events[i].index = i
	q.events[j].index = j
}

// Push is part of interface container/heap.
// Not intended for client use.
func (q *EventQ) Push(x interface{}) {
	e := x.(*Event)
	e.index = len(q.events)
	q.events = append(q.events, e)
	q.seq = append(q.seq, q.count)
	q.count++
}

// Pop is part of interface container/heap.
// Not intended for client use.
func (q *EventQ) Pop() interface{} {
	n := len(q.events)
	item := q.events[n-1]
	q.events[n-1] = nil // avoid memory leak
	item.index = -1
	q.events = q.events[:n-1]
	q.seq = q.seq[:n-1]
	return item
}
