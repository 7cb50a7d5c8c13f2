// actorSystemBuilder
package actor

import (
	"github.com/puzpuzpuz/xsync/v3"
	log "github.com/sirupsen/logrus"
)

// Builder for actor system.
type ActorSystemBuilder struct {
	as         *ActorSystem
	dlqBuilder *ActorBuilder
}

// Start building an actor system.
func BuildActorSystem() *ActorSystemBuilder {
	as := &ActorSystem{actors: xsync.NewMapOf[string, *ActorRef]()}
	// create the dead letter queue
	dlqBuilder := as.BuildActor(dlqName, func(_ *Actor, msg ActorMsg) {
		name := "<nil>"
		if msg.Sender() != nil {
			name = msg.Sender().name
		}
		log.WithFields(log.Fields{
			"reason": "DLQ",
			"source": name,
		}).Error(msg.Data())
		for {
			if msg = msg.Unwrap(); msg == nil {
				break
			}
			source := "<nil>"
			if msg.Sender() != nil {
				source = msg.Sender().name
			}
			log.WithFields(log.Fields{
				"reason": "DLQ (wrapped)",
				"source": source,
			}).Error(msg.Data())
		}
	}).
		WithHidden() // hide it

	// create the system event bus
	as.sysBus = NewEventBus(nil)

	return &ActorSystemBuilder{
		as,
		dlqBuilder,
	}
}

// Assign user data to the actor system.
func (sb *ActorSystemBuilder) WithSystemData(userData interface{}) *ActorSystemBuilder {
	sb.as.userData = userData
	return sb
}

// Replace the default dead letter queue, which logs
// everything it receives.
func (sb *ActorSystemBuilder) WithDeadLetterQueue(dlqFn func(a *Actor, msg ActorMsg)) *ActorSystemBuilder {
	sb.dlqBuilder = sb.as.BuildActor(dlqName, dlqFn).WithHidden()
	return sb
}

func (sb *ActorSystemBuilder) Run() *ActorSystem {
	dlqRef, err := sb.dlqBuilder.Run()
	if err != nil {
		log.Fatalf("DLQ actor failed to start: %v", err)
	}
	sb.as.dlq = dlqRef
	return sb.as
}
