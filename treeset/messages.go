// messages
package treeset

import (
	"github.com/pacs008/actor"
)

// Operation is a request to the set. Every operation is
// answered with exactly one OperationReply, sent straight to
// its Requester by whichever node completes it.
type Operation interface {
	requester() *actor.ActorRef
	value() int
	opName() string
}

// OperationReply is sent back to the requester of an Operation.
type OperationReply interface {
	ReplyID() int
}

// Insert adds Elem to the set.
type Insert struct {
	Requester *actor.ActorRef
	ID        int
	Elem      int
}

// Contains asks whether Elem is in the set.
type Contains struct {
	Requester *actor.ActorRef
	ID        int
	Elem      int
}

// Remove takes Elem out of the set. Removing an absent
// element is not an error.
type Remove struct {
	Requester *actor.ActorRef
	ID        int
	Elem      int
}

func (op Insert) requester() *actor.ActorRef   { return op.Requester }
func (op Contains) requester() *actor.ActorRef { return op.Requester }
func (op Remove) requester() *actor.ActorRef   { return op.Requester }

func (op Insert) value() int   { return op.Elem }
func (op Contains) value() int { return op.Elem }
func (op Remove) value() int   { return op.Elem }

func (Insert) opName() string   { return "insert" }
func (Contains) opName() string { return "contains" }
func (Remove) opName() string   { return "remove" }

// OperationFinished acknowledges an Insert or a Remove.
type OperationFinished struct {
	ID int
}

// ContainsResult answers a Contains.
type ContainsResult struct {
	ID     int
	Result bool
}

func (r OperationFinished) ReplyID() int { return r.ID }
func (r ContainsResult) ReplyID() int    { return r.ID }

// GC asks the manager to compact the tree. It has no reply.
type GC struct{}

// Position of a child below its parent.
type Position int

const (
	Left Position = iota
	Right
)

func (p Position) String() string {
	if p == Left {
		return "left"
	}
	return "right"
}

// Copy protocol messages. They never leave the tree.
type (
	// copy your subtree into newRoot
	copyTo struct {
		newRoot *actor.ActorRef
	}
	// the sender's subtree has been copied
	copyFinished struct{}
	// insert of a surviving element into the new tree,
	// acknowledged with copyInserted rather than a client reply
	copyInsert struct {
		source *actor.ActorRef
		Elem   int
	}
	// the copyInsert has been applied
	copyInserted struct{}
)

func (op copyInsert) requester() *actor.ActorRef { return op.source }
func (op copyInsert) value() int                 { return op.Elem }
func (copyInsert) opName() string                { return "copy" }
