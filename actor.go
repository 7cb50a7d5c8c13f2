package actor

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Actor is the core of the actor package. It is
// created by an ActorBuilder. An actor does not have
// any methods accessible from outside; it can only
// be accessed by passing messages to its ActorRef.
//
// An Actor runs in its own goroutine. It processes
// messages that it receives in its mailbox by
// calling the message handling function. It can
// communicate with other actors by sending messages
// or calling them. References of the actors to
// communicate with can be obtained by name from the
// actor system directory.
type Actor struct {
	as        *ActorSystem
	mailbox   *mailbox
	ref       *ActorRef
	doFunc    func(*Actor, ActorMsg)
	enterFunc func(*Actor)
	exitFunc  func(*Actor)
	name      string
	hidden    bool
	stopped   bool
}

// Create an actor in the system. This is a
// convenience method to create an actor
// without calling ActorBuilder.
func (as *ActorSystem) NewActor(name string, doFunc func(*Actor, ActorMsg)) (*ActorRef, error) {
	return as.BuildActor(name, doFunc).Run()
}

// This is the main loop that reads messages from the
// actor mailbox and invokes the message handler.
// If the message is a poison message it is intercepted,
// the exit function is called and the actor terminates.
// The actor also terminates once its handler has called Stop.
func mainLoop(a *Actor) {
	for {
		msg, ok := a.mailbox.take()
		if !ok {
			return
		}
		if msg.IsPoison() {
			a.exit("swallowed poison")
			return
		}

		protect(a, msg, a.doFunc)

		if a.stopped {
			a.exit("stopped")
			return
		}
	}
}

// Function to handle panics thrown by an actor. The message
// that was being handled is written to the Dead Letter Queue
// and the actor continues with processing the next message.
// Note: if the DLQ also panics (which should not be possible),
// the actor dies.
func protect(a *Actor, m ActorMsg, doFunc func(a *Actor, m ActorMsg)) {
	defer func() {
		if x := recover(); x != nil {
			reason := fmt.Sprintf("%v caught panic: %v", a.Name(), x)
			a.ActorSystem().sysBus.Publish(ActorProblem, reason)

			if a.Name() == dlqName {
				log.Fatalf("Urgh! DLQ loop - really dying")
			}
			a.ActorSystem().ToDeadLetter(m.Wrap(reason, a.Ref()))
		}
	}()
	doFunc(a, m)
}

// run the actor
func (a *Actor) run(as *ActorSystem) (*ActorRef, error) {
	if !a.hidden {
		err := as.register(a.Ref())
		if err != nil {
			log.Error(err)
			return nil, err
		}
	}

	if a.enterFunc != nil {
		as.sysBus.Publish(ActorLifecycle, a.name+" enterFunc")
		a.enterFunc(a)
	}
	as.sysBus.Publish(ActorLifecycle, a.name+" running")
	go mainLoop(a)

	return a.Ref(), nil
}

// tear the actor down: exit function, directory, mailbox
func (a *Actor) exit(why string) {
	if a.exitFunc != nil {
		a.as.sysBus.Publish(ActorLifecycle, a.name+" exitFunc")
		a.exitFunc(a)
	}
	if !a.hidden {
		a.as.unregister(a.name)
	}
	if dropped := a.mailbox.close(); dropped > 0 {
		log.WithFields(log.Fields{
			"actor":   a.name,
			"dropped": dropped,
		}).Warn("Actor exited with messages in its mailbox")
	}
	a.as.sysBus.Publish(ActorLifecycle, a.name+" "+why)
}

// check valid name
func (a *Actor) validName() error {
	var err error = nil
	name := a.name
	if name == "" || name[0] == '!' {
		err = fmt.Errorf("Invalid Actor name %q", name)
	}
	return err
}

// Get the ActorRef for this actor - used to set Sender in messages.
// The same ActorRef is returned on every call.
func (a *Actor) Ref() *ActorRef {
	return a.ref
}

// Get the name for this actor.
func (a *Actor) Name() string {
	return a.name
}

// Stop the actor once the current message has been handled.
// It must only be called from the actor's own message handler.
// The exit function runs, the actor leaves the directory and
// its mailbox is closed; anything still queued is dropped.
func (a *Actor) Stop() {
	a.stopped = true
}

// Send self a message after the specified duration. This
// fires one-off.
func (a *Actor) After(d time.Duration, data interface{}) {
	go func() {
		<-time.After(d)
		a.mailbox.put(NewActorMsg(data, nil))
	}()
}

// Send self a message every specified duration. This
// fires repeatedly. It returns a channel - write anything
// to this channel (or close it) to stop the timer. The timer
// also stops when the actor exits.
func (a *Actor) Every(d time.Duration, data interface{}) chan interface{} {
	ch := make(chan interface{})
	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if !a.mailbox.put(NewActorMsg(data, nil)) {
					return
				}
			case <-ch:
				return
			}
		}
	}()
	return ch
}

// Get the ActorSystem in which the actor is running.
func (a *Actor) ActorSystem() *ActorSystem {
	return a.as
}

// Get the SystemData for the ActorSystem in which the actor is running.
func (a *Actor) SystemData() interface{} {
	return a.as.SystemData()
}
