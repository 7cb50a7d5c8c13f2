// node
package treeset

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"
	"github.com/pacs008/actor"
	log "github.com/sirupsen/logrus"
)

type nodeState int

const (
	nodeNormal nodeState = iota
	nodeCopying
)

// node is the state of one tree node actor. It is only ever
// touched by that actor's message handler.
type node struct {
	set      string // owning set, prefixes actor names
	elem     int
	removed  bool
	children map[Position]*actor.ActorRef
	parent   *actor.ActorRef

	state nodeState
	// Copying: children whose subtree copy is outstanding, by actor name
	expected mapset.Set[string]
	// Copying: own element is in the new tree (or never needed to be)
	insertConfirmed bool
}

// spawnNode starts a node actor for elem below parent.
func spawnNode(as *actor.ActorSystem, set string, elem int, removed bool, parent *actor.ActorRef) (*actor.ActorRef, error) {
	n := &node{
		set:      set,
		elem:     elem,
		removed:  removed,
		children: make(map[Position]*actor.ActorRef, 2),
		parent:   parent,
	}
	name := fmt.Sprintf("%s/node/%d/%s", set, elem, uuid.NewString())
	ref, err := as.BuildActor(name, n.receive).
		WithExit(func(*actor.Actor) { nodesRunning.Dec() }).
		Run()
	if err != nil {
		return nil, err
	}
	nodesRunning.Inc()
	return ref, nil
}

func (n *node) receive(a *actor.Actor, msg actor.ActorMsg) {
	switch n.state {
	case nodeNormal:
		n.normal(a, msg)
	case nodeCopying:
		n.copying(a, msg)
	}
}

func (n *node) normal(a *actor.Actor, msg actor.ActorMsg) {
	switch m := msg.Data().(type) {
	case Operation:
		n.route(a, m)
	case copyTo:
		n.startCopy(a, m.newRoot)
	default:
		n.ignore(a, msg)
	}
}

// route an operation one level down, or complete it here
func (n *node) route(a *actor.Actor, op Operation) {
	v := op.value()
	if v == n.elem {
		n.apply(a, op)
		return
	}
	pos := Right
	if v < n.elem {
		pos = Left
	}
	if child, ok := n.children[pos]; ok {
		child.Send(op, a.Ref())
		return
	}
	n.deadEnd(a, op, pos)
}

// apply an operation addressed to this node's own element
func (n *node) apply(a *actor.Actor, op Operation) {
	switch op := op.(type) {
	case Insert:
		n.removed = false
		op.Requester.Send(OperationFinished{op.ID}, a.Ref())
	case copyInsert:
		n.removed = false
		op.source.Send(copyInserted{}, a.Ref())
	case Remove:
		n.removed = true
		op.Requester.Send(OperationFinished{op.ID}, a.Ref())
	case Contains:
		op.Requester.Send(ContainsResult{op.ID, !n.removed}, a.Ref())
	}
}

// complete an operation whose element has no slot below this node
func (n *node) deadEnd(a *actor.Actor, op Operation, pos Position) {
	switch op := op.(type) {
	case Insert:
		if n.grow(a, pos, op.Elem) {
			op.Requester.Send(OperationFinished{op.ID}, a.Ref())
		}
	case copyInsert:
		if n.grow(a, pos, op.Elem) {
			op.source.Send(copyInserted{}, a.Ref())
		}
	case Remove:
		op.Requester.Send(OperationFinished{op.ID}, a.Ref())
	case Contains:
		op.Requester.Send(ContainsResult{op.ID, false}, a.Ref())
	}
}

// grow adds a live child for elem at pos. An insert is only
// acknowledged if this succeeds.
func (n *node) grow(a *actor.Actor, pos Position, elem int) bool {
	child, err := spawnNode(a.ActorSystem(), n.set, elem, false, a.Ref())
	if err != nil {
		log.WithFields(log.Fields{
			"node": a.Name(),
			"elem": elem,
		}).Errorf("Cannot create child node: %v", err)
		return false
	}
	n.children[pos] = child
	return true
}

func (n *node) startCopy(a *actor.Actor, newRoot *actor.ActorRef) {
	if n.removed && len(n.children) == 0 {
		n.finishCopy(a)
		return
	}
	if !n.removed {
		newRoot.Send(copyInsert{source: a.Ref(), Elem: n.elem}, a.Ref())
	}
	n.expected = mapset.NewThreadUnsafeSet[string]()
	for _, child := range n.children {
		n.expected.Add(child.Name())
		child.Send(copyTo{newRoot}, a.Ref())
	}
	n.insertConfirmed = n.removed
	n.state = nodeCopying
}

func (n *node) copying(a *actor.Actor, msg actor.ActorMsg) {
	switch msg.Data().(type) {
	case copyInserted:
		n.insertConfirmed = true
	case copyFinished:
		n.expected.Remove(msg.Sender().Name())
	default:
		n.ignore(a, msg)
		return
	}
	if n.insertConfirmed && n.expected.Cardinality() == 0 {
		n.finishCopy(a)
	}
}

// the subtree rooted here is in the new tree; this node is done
func (n *node) finishCopy(a *actor.Actor) {
	n.parent.Send(copyFinished{}, a.Ref())
	a.Stop()
}

func (n *node) ignore(a *actor.Actor, msg actor.ActorMsg) {
	if _, ok := msg.Data().(Operation); ok || isProtocolMsg(msg.Data()) {
		log.WithFields(log.Fields{
			"node":  a.Name(),
			"state": n.state,
			"msg":   fmt.Sprintf("%T", msg.Data()),
		}).Debug("Ignoring message")
		return
	}
	a.ActorSystem().ToDeadLetter(msg)
}

func isProtocolMsg(data interface{}) bool {
	switch data.(type) {
	case GC, copyTo, copyFinished, copyInserted, OperationFinished, ContainsResult:
		return true
	}
	return false
}
