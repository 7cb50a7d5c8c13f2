package actor

import (
	"fmt"
	"sort"

	"github.com/puzpuzpuz/xsync/v3"
)

// Topics on the System Message Bus
const (
	ActorLifecycle = "actorLifecycle"
	ActorProblem   = "actorProblem"
)

const dlqName = "dlq"

// The system that all actors operate in.
type ActorSystem struct {
	actors   *xsync.MapOf[string, *ActorRef]
	sysBus   *EventBus
	dlq      *ActorRef
	userData interface{}
}

// Create an actor system.
func NewActorSystem() *ActorSystem {
	return BuildActorSystem().Run()
}

// Register the actor.
func (as *ActorSystem) register(ar *ActorRef) error {
	if _, loaded := as.actors.LoadOrStore(ar.name, ar); loaded {
		return fmt.Errorf("Actor %v already registered", ar.name)
	}

	as.sysBus.Publish(ActorLifecycle, ar.name+" registered")

	return nil
}

// Unregister the actor.
func (as *ActorSystem) unregister(name string) {
	as.actors.Delete(name)

	as.sysBus.Publish(ActorLifecycle, name+" unregistered")
}

// Get an ActorRef by the name of the actor.
func (as *ActorSystem) Lookup(name string) (*ActorRef, error) {
	ref, ok := as.actors.Load(name)
	if !ok {
		return nil, fmt.Errorf("No actor named [%v]", name)
	}
	return ref, nil
}

// Return a sorted list of all the actors in the system.
func (as *ActorSystem) ListActors() []string {
	keys := make([]string, 0, as.actors.Size())
	as.actors.Range(func(k string, _ *ActorRef) bool {
		keys = append(keys, k)
		return true
	})
	sort.Strings(keys)

	return keys
}

// Send an ActorMsg to the DLQ.
func (as *ActorSystem) ToDeadLetter(msg ActorMsg) {
	as.dlq.Forward(msg)
}

// Get the system bus. This is a special bus that publishes
// actor lifecycle events:
// registered
// enterFunc
// running
// exitFunc
// unregistered
// stopped / swallowed poison
// and actor problems:
// caught panic
func (as *ActorSystem) SystemBus() *EventBus {
	return as.sysBus
}

// Get the system data.
func (as *ActorSystem) SystemData() interface{} {
	return as.userData
}
