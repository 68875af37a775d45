package session

import (
	"sync"
	"time"

	"kidcalc/internal/calculator"
	"kidcalc/internal/gamification"
)

// CalculatorView is the JSON form of calculator.State.
type CalculatorView struct {
	DisplayValue      string   `json:"displayValue"`
	FirstOperand      *float64 `json:"firstOperand"`
	PendingOperation  *string  `json:"pendingOperation"`
	WaitingForOperand bool     `json:"waitingForOperand"`
}

func viewOf(st calculator.State) CalculatorView {
	v := CalculatorView{
		DisplayValue:      st.Display,
		FirstOperand:      st.FirstOperand,
		WaitingForOperand: st.Waiting,
	}
	if st.PendingOp != "" {
		op := string(st.PendingOp)
		v.PendingOperation = &op
	}
	return v
}

// Snapshot is the session state seen by front ends.
type Snapshot struct {
	Calculator    CalculatorView        `json:"calculator"`
	Progress      gamification.Progress `json:"progress"`
	DigitsPending bool                  `json:"digitsPending"`
	At            time.Time             `json:"at"`
}

// Update is pushed to subscribers after every applied change. Events holds
// the gamification events appended since the previous update.
type Update struct {
	Reason string               `json:"reason"`
	State  Snapshot             `json:"state"`
	Events []gamification.Event `json:"events,omitempty"`
}

const subscriberBuffer = 32

type broker struct {
	mu     sync.Mutex
	next   int
	subs   map[int]chan Update
	closed bool
}

func newBroker() *broker {
	return &broker{subs: make(map[int]chan Update)}
}

func (b *broker) subscribe() (<-chan Update, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Update, subscriberBuffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.next
	b.next++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

func (b *broker) publish(u Update) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- u:
		default:
		}
	}
}

func (b *broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
