// helpers_test
package treeset

import (
	"strings"
	"testing"
	"time"

	"github.com/pacs008/actor"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const replyWait = 5 * time.Second

// a hidden actor that writes every reply it gets to a channel
func newProbe(t *testing.T, as *actor.ActorSystem) (*actor.ActorRef, chan OperationReply) {
	t.Helper()
	ch := make(chan OperationReply, 1024)
	ref, err := as.BuildActor("probe", func(_ *actor.Actor, msg actor.ActorMsg) {
		if reply, ok := msg.Data().(OperationReply); ok {
			ch <- reply
		}
	}).WithHidden().Run()
	require.NoError(t, err)
	return ref, ch
}

func nextReply(t *testing.T, ch chan OperationReply) OperationReply {
	t.Helper()
	select {
	case reply := <-ch:
		return reply
	case <-time.After(replyWait):
		t.Fatal("no reply")
		return nil
	}
}

// collect n replies keyed by id; replies from different nodes
// may arrive in any order
func collectReplies(t *testing.T, ch chan OperationReply, n int) map[int]OperationReply {
	t.Helper()
	replies := make(map[int]OperationReply, n)
	for i := 0; i < n; i++ {
		reply := nextReply(t, ch)
		_, dup := replies[reply.ReplyID()]
		require.False(t, dup, "duplicate reply %v", reply)
		replies[reply.ReplyID()] = reply
	}
	return replies
}

// an event bus whose GC events are copied to a channel
func watchGC(t *testing.T, as *actor.ActorSystem) (*actor.EventBus, chan actor.BusEvent) {
	t.Helper()
	bus := actor.NewEventBus(func(data interface{}) bool {
		_, ok := data.(Stats)
		return ok
	})
	ch := make(chan actor.BusEvent, 64)
	ref, err := as.BuildActor("gcWatcher", func(_ *actor.Actor, msg actor.ActorMsg) {
		if event, ok := msg.(actor.BusEvent); ok {
			ch <- event
		}
	}).WithHidden().Run()
	require.NoError(t, err)
	require.NoError(t, bus.Subscribe(ref, "^gc", nil))
	return bus, ch
}

func waitEvent(t *testing.T, ch chan actor.BusEvent, topic string) Stats {
	t.Helper()
	deadline := time.After(replyWait)
	for {
		select {
		case event := <-ch:
			if event.Topic() == topic {
				return event.Data().(Stats)
			}
		case <-deadline:
			t.Fatalf("no %v event", topic)
		}
	}
}

// names of the running node actors of a set
func nodeNames(as *actor.ActorSystem, set string) []string {
	var names []string
	for _, name := range as.ListActors() {
		if strings.HasPrefix(name, set+"/node/") {
			names = append(names, name)
		}
	}
	return names
}

func quiet() {
	log.SetLevel(log.InfoLevel)
}
