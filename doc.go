// actor project doc.go

/*
The actor package provides a lightweight Actor framework for go.
It is consciously based on the Akka framework, which in turn derives from Erlang.
The main restriction of actor is that it is not a distributed framework -
there are plenty of distributed frameworks in which the actor package can work.

The actor framework provides a simple model to implement asynchronous concurrent
processing. Actors deal with one message at a time, so developers do not need to
handle locking and synchronization. Parallelism is achieved by running many
actors side by side.

Actors encapsulate functionality and state. They communicate via
message passing. Developers define functions to handle the messages that an
actor receives. An actor can receive multiple message types.

Mailboxes are unbounded: sending never blocks, and messages from one sender
to one receiver are delivered in the order they were sent. An actor ends when
it is killed with a poison message or when its own handler calls Stop.
Nothing may be sent to an actor after it has ended; such messages are logged
and go to the Dead Letter Queue.

As well as point-to-point message passing, the actor framework also supports
a pub-sub model. Actors subscribing to a topic receive messages in the same
handler function as normal messages.

Although the framework focuses on asynchronous communications, it also supports
a synchronous call mechanism. Normal actors can also act as RPC servers - a call
is received like a normal message with a response method.

The package provides a simple directory service to make actors discoverable.

The treeset sub-package builds an ordered integer set out of actors, one
actor per tree node.

*/
package actor
