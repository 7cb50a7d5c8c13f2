// node_test
package treeset

import (
	"testing"

	"github.com/pacs008/actor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// an insert whose child node cannot be created is not acknowledged
func TestInsertNotFinishedWhenGrowFails(t *testing.T) {
	quiet()
	as := actor.NewActorSystem()
	probe, replies := newProbe(t, as)

	// children of this node get names starting with '!', which
	// the actor system rejects
	n := &node{
		set:      "!broken",
		children: make(map[Position]*actor.ActorRef, 2),
	}
	ref, err := as.BuildActor("growFails", n.receive).Run()
	require.NoError(t, err)

	ref.Send(Insert{probe, 1, 5}, nil)
	ref.Send(Contains{probe, 2, 5}, nil)
	// replies from one node arrive in order, so an acknowledged
	// insert would come first
	assert.Equal(t, ContainsResult{2, false}, nextReply(t, replies))
	assert.Empty(t, n.children)
}
