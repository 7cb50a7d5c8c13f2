// actorRef
package actor

import (
	log "github.com/sirupsen/logrus"
)

// handle for other actors to send messages
type ActorRef struct {
	as      *ActorSystem
	mailbox *mailbox
	name    string
}

const (
	noreply = "!noreply"
)

// send a message to an actor
func (ref *ActorRef) SendMsg(msg ActorMsg) {
	if ref.mailbox == nil {
		log.WithField("actor", ref.name).Errorf("Cannot send to placeholder ref (%v)", msg.Data())
		return
	}
	if !ref.mailbox.put(msg) {
		// nothing may be sent to an actor after it has stopped
		log.WithFields(log.Fields{
			"actor": ref.name,
			"type":  msg.Type(),
		}).Error("Send to stopped actor")
		if ref.as != nil {
			ref.as.ToDeadLetter(msg)
		}
	}
}

// convenience method to build ActorMsg and send
func (ref *ActorRef) Send(data interface{}, sender *ActorRef) {
	if sender == nil {
		sender = NoreplyActorRef()
	}
	ref.SendMsg(NewActorMsg(data, sender))
}

// forward a message to an actor
func (ref *ActorRef) Forward(msg ActorMsg) {
	ref.SendMsg(msg)
}

// kill an actor
func (ref *ActorRef) Kill() {
	ref.SendMsg(newActorMsg(MsgTypePoison, "", nil))
}

// Get the name of the actor behind the ref.
func (ref *ActorRef) Name() string {
	return ref.name
}

// Number of messages waiting in the actor's mailbox.
func (ref *ActorRef) Pending() int {
	if ref.mailbox == nil {
		return 0
	}
	return ref.mailbox.len()
}

func (ref *ActorRef) String() string {
	return ref.name
}

// Noreply ActorRef
func NoreplyActorRef() *ActorRef {
	return makeSomething(noreply)
}

// is it the noreply actor?
func (ref *ActorRef) IsNoreply() bool {
	return isSomething(ref, noreply)
}

// make a thing
func makeSomething(something string) *ActorRef {
	return &ActorRef{
		nil,
		nil,
		something,
	}
}

// is it a thing?
func isSomething(ref *ActorRef, something string) bool {
	return ref != nil && ref.name == something
}
