// manager
package treeset

import (
	"fmt"
	"time"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/pacs008/actor"
	log "github.com/sirupsen/logrus"
)

// Topics published on the event bus given to WithEventBus.
const (
	GCStarted  = "gcStarted"
	GCFinished = "gcFinished"
)

// StatsMethod is the Call method answered by a manager with its Stats.
const StatsMethod = "stats"

// sentinel value of a root node; roots are created tombstoned
const sentinelElem = 0

type managerState int

const (
	managerNormal managerState = iota
	managerCollecting
)

func (s managerState) String() string {
	if s == managerCollecting {
		return "garbageCollecting"
	}
	return "normal"
}

// Stats describes a manager at one point in time.
type Stats struct {
	Root       string // actor name of the current root node
	GCCycles   int    // completed garbage collections
	Collecting bool
	Pending    int // operations held back by the running collection
}

// manager is the single entry point of a set. It routes every
// operation to the root node and runs garbage collection.
type manager struct {
	name       string
	root       *actor.ActorRef
	state      managerState
	newRoot    *actor.ActorRef
	pending    *linkedlistqueue.Queue
	gcCycles   int
	gcInterval time.Duration
	bus        *actor.EventBus
	stopTicker chan interface{}
}

// ManagerBuilder builds the manager actor of a set.
type ManagerBuilder struct {
	as  *actor.ActorSystem
	m   *manager
	err error
}

// Build a set named name. The returned builder's Run starts
// the manager actor; its ActorRef accepts Insert, Contains,
// Remove and GC messages.
func Build(as *actor.ActorSystem, name string) *ManagerBuilder {
	b := &ManagerBuilder{
		as: as,
		m: &manager{
			name:    name,
			pending: linkedlistqueue.New(),
		},
	}
	if name == "" {
		b.err = fmt.Errorf("Invalid set name %q", name)
	}
	return b
}

// Trigger a garbage collection every interval.
func (b *ManagerBuilder) WithGCInterval(interval time.Duration) *ManagerBuilder {
	if b.err == nil {
		if interval <= 0 {
			b.err = fmt.Errorf("Invalid GC interval %v: must be > 0", interval)
		} else {
			b.m.gcInterval = interval
		}
	}
	return b
}

// Publish GCStarted and GCFinished events on bus. The event
// data is the manager's Stats.
func (b *ManagerBuilder) WithEventBus(bus *actor.EventBus) *ManagerBuilder {
	if b.err == nil {
		b.m.bus = bus
	}
	return b
}

// Start the manager. This must be the last call in the
// builder chain.
func (b *ManagerBuilder) Run() (*actor.ActorRef, error) {
	if b.err != nil {
		return nil, b.err
	}
	m := b.m
	return b.as.BuildActor(m.name, m.receive).
		WithEnter(m.enter).
		WithExit(m.exit).
		Run()
}

// Start a set with default settings.
func New(as *actor.ActorSystem, name string) (*actor.ActorRef, error) {
	return Build(as, name).Run()
}

func (m *manager) enter(a *actor.Actor) {
	root, err := spawnNode(a.ActorSystem(), m.name, sentinelElem, true, a.Ref())
	if err != nil {
		// without a root every operation would be lost
		log.Fatalf("%v cannot create root node: %v", m.name, err)
	}
	m.root = root
	if m.gcInterval > 0 {
		m.stopTicker = a.Every(m.gcInterval, GC{})
	}
}

func (m *manager) exit(*actor.Actor) {
	if m.stopTicker != nil {
		close(m.stopTicker)
	}
}

func (m *manager) receive(a *actor.Actor, msg actor.ActorMsg) {
	if call, ok := msg.(actor.CallRequest); ok {
		m.answer(call)
		return
	}
	switch m.state {
	case managerNormal:
		m.normal(a, msg)
	case managerCollecting:
		m.collecting(a, msg)
	}
}

func (m *manager) normal(a *actor.Actor, msg actor.ActorMsg) {
	switch data := msg.Data().(type) {
	case Operation:
		operationsRouted.WithLabelValues(data.opName()).Inc()
		m.root.Send(data, a.Ref())
	case GC:
		m.startGC(a)
	default:
		m.ignore(a, msg)
	}
}

func (m *manager) startGC(a *actor.Actor) {
	newRoot, err := spawnNode(a.ActorSystem(), m.name, sentinelElem, true, a.Ref())
	if err != nil {
		log.WithField("set", m.name).Errorf("Cannot start garbage collection: %v", err)
		return
	}
	m.newRoot = newRoot
	m.state = managerCollecting
	m.root.Send(copyTo{newRoot}, a.Ref())
	log.WithFields(log.Fields{
		"set":     m.name,
		"oldRoot": m.root.Name(),
		"newRoot": newRoot.Name(),
	}).Debug("Garbage collection started")
	m.publish(GCStarted)
}

func (m *manager) collecting(a *actor.Actor, msg actor.ActorMsg) {
	switch data := msg.Data().(type) {
	case Operation:
		operationsRouted.WithLabelValues(data.opName()).Inc()
		gcQueuedOperations.Inc()
		m.pending.Enqueue(data)
	case copyFinished:
		m.finishGC(a)
	case GC:
		// a running collection is never restarted or queued
	default:
		m.ignore(a, msg)
	}
}

func (m *manager) finishGC(a *actor.Actor) {
	m.root = m.newRoot
	m.newRoot = nil
	replayed := m.pending.Size()
	for !m.pending.Empty() {
		op, _ := m.pending.Dequeue()
		m.root.Send(op, a.Ref())
	}
	m.state = managerNormal
	m.gcCycles++
	gcCycles.Inc()
	log.WithFields(log.Fields{
		"set":      m.name,
		"root":     m.root.Name(),
		"replayed": replayed,
	}).Debug("Garbage collection finished")
	m.publish(GCFinished)
}

func (m *manager) stats() Stats {
	return Stats{
		Root:       m.root.Name(),
		GCCycles:   m.gcCycles,
		Collecting: m.state == managerCollecting,
		Pending:    m.pending.Size(),
	}
}

func (m *manager) answer(call actor.CallRequest) {
	switch call.Method() {
	case StatsMethod:
		call.CallResponse(m.stats(), nil)
	default:
		call.CallResponse(nil, fmt.Errorf("%v: unknown method %q", m.name, call.Method()))
	}
}

func (m *manager) publish(topic string) {
	if m.bus == nil {
		return
	}
	if err := m.bus.Publish(topic, m.stats()); err != nil {
		log.WithField("set", m.name).Warnf("Cannot publish %v: %v", topic, err)
	}
}

func (m *manager) ignore(a *actor.Actor, msg actor.ActorMsg) {
	if isProtocolMsg(msg.Data()) {
		log.WithFields(log.Fields{
			"set":   m.name,
			"state": m.state,
			"msg":   fmt.Sprintf("%T", msg.Data()),
		}).Debug("Ignoring message")
		return
	}
	a.ActorSystem().ToDeadLetter(msg)
}
