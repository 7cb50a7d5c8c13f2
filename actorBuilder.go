package actor

// ActorBuilder is used to build and
// decorate actors. An ActorBuilder instance
// is created by calling ActorSystem.BuildActor.
type ActorBuilder struct {
	actorBuilder
}

// Data required by concrete
// actor builder.
type actorBuilder struct {
	as    *ActorSystem
	actor *Actor
	err   error
}

// Build a basic actor with a message handling function. The
// actor invokes the message handling function when it reads
// a message from its mailbox.
func (as *ActorSystem) BuildActor(name string, doFunc func(*Actor, ActorMsg)) *ActorBuilder {
	mb := newMailbox()
	a := &Actor{
		as:        as,
		mailbox:   mb,
		ref:       &ActorRef{as, mb, name},
		doFunc:    doFunc,
		enterFunc: func(*Actor) {},
		exitFunc:  func(*Actor) {},
		name:      name,
	}
	err := a.validName()
	return &ActorBuilder{
		actorBuilder{
			as,
			a,
			err,
		}}
}

// Add an enter function to the actor. The enter function
// gets called once when the actor starts.
func (b *ActorBuilder) WithEnter(enterFunc func(*Actor)) *ActorBuilder {
	if b.err == nil {
		b.actor.enterFunc = enterFunc
	}
	return b
}

// Add an exit function to the actor. The exit function
// gets called once when the actor exits.
func (b *ActorBuilder) WithExit(exitFunc func(*Actor)) *ActorBuilder {
	if b.err == nil {
		b.actor.exitFunc = exitFunc
	}
	return b
}

// Exclude an actor from the actor system directory.
// Can be used to create transient actors; a hidden
// actor's name need not be unique.
func (b *ActorBuilder) WithHidden() *ActorBuilder {
	if b.err == nil {
		b.actor.hidden = true
	}
	return b
}

// This must be the last call in the builder chain.
// It registers the actor in the actor system
// directory, calls the actor entry function, and
// starts the actor reading from its mailbox.
func (b *actorBuilder) Run() (*ActorRef, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.actor.run(b.as)
}
