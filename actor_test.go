// actor_test
package actor

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// test message wrapping & unwrapping
func TestMsg(t *testing.T) {
	log.SetLevel(log.DebugLevel)

	wrapped := "wrapped"
	m := NewActorMsg(wrapped, nil)

	wrapper := "wrapper"
	m = m.Wrap(wrapper, nil)

	if m.Data() != wrapper {
		t.Errorf("expected %v, got %v", wrapper, m.Data())
	}
	m = m.Unwrap()
	if m == nil {
		t.Errorf("expected %v, got %v", wrapped, m)
	} else if m.Data() != wrapped {
		t.Errorf("expected %v, got %v", wrapped, m.Data())
	}
	m = m.Unwrap()
	if m != nil {
		t.Errorf("expected nil, got %v", m)
	}
}

// message types survive wrapping; only Kill makes poison
func TestMsgType(t *testing.T) {
	m := NewActorMsg("data", nil)
	assert.Equal(t, MsgTypeMessage, m.Type())
	assert.False(t, m.IsPoison())
	assert.Equal(t, MsgTypeMessage, m.Wrap("wrapper", nil).Type())

	poison := newActorMsg(MsgTypePoison, "", nil)
	assert.True(t, poison.IsPoison())
	assert.True(t, poison.Wrap("wrapper", nil).IsPoison())
}

// test the dead letter queue
func TestDLQ(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	as := NewActorSystem()

	as.ToDeadLetter(NewActorMsg("Dead as a doornail", nil))
}

// test a single actor - get reference by
// creation and by lookup
func TestActor(t *testing.T) {
	type userType struct {
		world string
	}
	log.SetLevel(log.DebugLevel)
	as := BuildActorSystem().WithSystemData(&userType{"world"}).Run()
	ch := make(chan string)

	fn := func(ac *Actor, msg ActorMsg) {
		str := msg.Data().(string)
		ch <- str + " " + ac.SystemData().(*userType).world
	}

	// check we can create actor
	a, err := as.NewActor("test", fn)
	require.NoError(t, err, "Create actor failed")

	// send to actor ref
	a.Send("Hello", nil)
	assert.Equal(t, "Hello world", <-ch)

	// lookup and send to it
	a1, err := as.Lookup("test")
	require.NoError(t, err, "Lookup actor failed")
	assert.Same(t, a, a1)
	a1.Send("Tata", nil)
	assert.Equal(t, "Tata world", <-ch)

	// a non-string panics; the actor carries on
	a1.Send(1, nil)
	a1.Send("Still", nil)
	assert.Equal(t, "Still world", <-ch)
}

func TestInvalidName(t *testing.T) {
	as := NewActorSystem()
	for _, name := range []string{"", "!bang"} {
		_, err := as.NewActor(name, func(*Actor, ActorMsg) {})
		assert.Error(t, err, "name %q", name)
	}
	_, err := as.NewActor("twin", func(*Actor, ActorMsg) {})
	require.NoError(t, err)
	_, err = as.NewActor("twin", func(*Actor, ActorMsg) {})
	assert.Error(t, err)
}

// TestCallError
func TestCallError(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	as := NewActorSystem()
	ch := make(chan string)

	aRsp, err := as.NewActor("aRsp", func(ac *Actor, msg ActorMsg) {
		switch msg := msg.(type) {
		case CallRequest:
			msg.CallResponse("response", fmt.Errorf("Test error return"))
		default:
			log.Errorf("Expected CallRequest but got %v", msg.Type())
		}
	})
	require.NoError(t, err, "Create actor aRsp failed")

	aReq, err := as.NewActor("aReq", func(ac *Actor, msg ActorMsg) {
		rsp, err := aRsp.Call("myMethod", msg.Data(), 1000)
		if err == nil {
			ch <- "expected an error"
			return
		}
		switch rsp := rsp.(type) {
		case string:
			ch <- rsp
		default:
			ch <- fmt.Sprintf("Unexpected type: %T", rsp)
		}
	})
	require.NoError(t, err, "Create actor aReq failed")

	// Make requester send
	aReq.Send("request", nil)
	assert.Equal(t, "response", <-ch)
}

func TestCallTimeout(t *testing.T) {
	as := NewActorSystem()
	mute, err := as.NewActor("mute", func(*Actor, ActorMsg) {})
	require.NoError(t, err)

	_, err = mute.Call("anything", nil, 20)
	assert.Error(t, err)
}

// test a pair of actors, one forwards to the
// other, which replies to the first
func TestReqRsp(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	as := NewActorSystem()
	ch := make(chan string)

	// create a pair of actors
	fnRsp := func(ac *Actor, msg ActorMsg) {
		msg.Reply("response", nil)
	}

	aRsp, err := as.NewActor("aRsp", fnRsp)
	require.NoError(t, err, "Create actor aRsp failed")

	fnReq := func(ac *Actor, msg ActorMsg) {
		str := msg.Data().(string)
		switch str {
		case "request":
			aRsp.Send(msg.Data(), ac.Ref())
		case "response":
			ch <- str
		}
	}

	aReq, err := as.NewActor("aReq", fnReq)
	require.NoError(t, err, "Create actor aReq failed")

	// send to actor ref
	aReq.Send("request", nil)
	assert.Equal(t, "response", <-ch)
}

// test an actor with After
func TestAfter(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	as := NewActorSystem()
	ch := make(chan string)

	// create an actor with after
	doFunc := makeChanWriterFn(ch)
	enterFunc := func(ac *Actor) {
		ac.After(10*time.Millisecond, "after")
	}
	_, err := as.BuildActor("aAfter", doFunc).WithEnter(enterFunc).Run()
	require.NoError(t, err)

	assert.Equal(t, "after", <-ch)
}

// test an actor with Every
func TestEvery(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	as := NewActorSystem()
	ch := make(chan string)

	// create an actor with every
	var stop chan interface{}
	doFunc := makeChanWriterFn(ch)
	enterFunc := func(ac *Actor) {
		stop = ac.Every(10*time.Millisecond, "every")
	}
	_, err := as.BuildActor("aEvery", doFunc).WithEnter(enterFunc).Run()
	require.NoError(t, err)

	assert.Equal(t, "every", <-ch)
	assert.Equal(t, "every", <-ch)
	close(stop)
}

// messages from one sender arrive in order, and a flood of
// them never blocks the sender
func TestMailboxOrder(t *testing.T) {
	as := NewActorSystem()
	const n = 10000
	var got []int
	done := make(chan struct{})

	slow, err := as.NewActor("slow", func(_ *Actor, msg ActorMsg) {
		got = append(got, msg.Data().(int))
		if len(got) == n {
			close(done)
		}
	})
	require.NoError(t, err)

	for i := 0; i < n; i++ {
		slow.Send(i, nil)
	}
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("received %v of %v messages", len(got), n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("message %v arrived as %v", v, i)
		}
	}
}

// Stop ends the actor after the current message; anything
// sent afterwards goes to the DLQ
func TestStop(t *testing.T) {
	dead := make(chan interface{}, 10)
	as := BuildActorSystem().WithDeadLetterQueue(func(_ *Actor, msg ActorMsg) {
		dead <- msg.Data()
	}).Run()

	exited := make(chan struct{})
	handled := make(chan interface{}, 10)
	a, err := as.BuildActor("stopper", func(ac *Actor, msg ActorMsg) {
		handled <- msg.Data()
		if msg.Data() == "stop" {
			ac.Stop()
		}
	}).WithExit(func(*Actor) { close(exited) }).Run()
	require.NoError(t, err)

	a.Send("one", nil)
	a.Send("stop", nil)
	<-exited
	assert.Equal(t, "one", <-handled)
	assert.Equal(t, "stop", <-handled)

	_, err = as.Lookup("stopper")
	assert.Error(t, err)

	a.Send("late", nil)
	select {
	case data := <-dead:
		assert.Equal(t, "late", data)
	case <-time.After(time.Second):
		t.Fatal("late message did not reach the DLQ")
	}
	assert.Empty(t, handled)
}

// test event bus
func TestEventBus(t *testing.T) {
	log.SetLevel(log.DebugLevel)
	as := NewActorSystem()

	eb := NewEventBus(func(data interface{}) bool {
		_, ok := data.(string)
		return ok
	})
	assert.Error(t, eb.Publish("topic", 1))

	// check that topic matching works
	var mu sync.Mutex
	received := make(map[string][]string)
	record := func(name, what string) {
		mu.Lock()
		defer mu.Unlock()
		received[name] = append(received[name], what)
	}
	for _, pattern := range []string{"topic", "^t.*", "^[r-u].*", "^[a-c].*"} {
		pattern := pattern
		_, err := as.BuildActor("subscriber "+pattern, func(ac *Actor, msg ActorMsg) {
			if event, ok := msg.(BusEvent); ok {
				record(ac.Name(), event.Topic()+"/"+event.Data().(string))
			}
		}).
			WithEnter(func(ac *Actor) {
				err := eb.Subscribe(ac.Ref(), pattern, nil)
				if err != nil {
					t.Errorf("%v: Subscribe failed %v", ac.Name(), err)
				}
			}).Run()
		require.NoError(t, err)
	}
	eb.Publish("topic", "Some event")

	// create three actors, each subscribing with a particular filter
	subscribers := make([]*ActorRef, 0)
	for i := 0; i < 3; i++ {
		myStr := strconv.Itoa(i)
		a, err := as.BuildActor(fmt.Sprintf("subscriber%v", i), func(ac *Actor, msg ActorMsg) {
			if event, ok := msg.(BusEvent); ok {
				record(ac.Name(), event.Data().(string))
			}
		}).
			WithEnter(func(ac *Actor) {
				eb.Subscribe(ac.Ref(), "", func(data interface{}) bool {
					s, ok := data.(string)
					return ok && strings.Contains(s, myStr)
				})
			}).Run()
		require.NoError(t, err)
		subscribers = append(subscribers, a)
	}

	for i := 0; i < 3; i++ {
		eb.Publish("myTopic", fmt.Sprintf("Event #%v", i))
	}

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, name := range []string{"subscriber topic", "subscriber ^t.*", "subscriber ^[r-u].*",
			"subscriber0", "subscriber1", "subscriber2"} {
			if len(received[name]) != 1 {
				return false
			}
		}
		return true
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, []string{"topic/Some event"}, received["subscriber topic"])
	assert.Equal(t, []string{"topic/Some event"}, received["subscriber ^[r-u].*"])
	assert.Empty(t, received["subscriber ^[a-c].*"])
	assert.Equal(t, []string{"Event #0"}, received["subscriber0"])
	mu.Unlock()

	// unsubscribe one and kill the rest
	eb.Unsubscribe(subscribers[0])
	eb.Publish("myTopic", "Event #0 again")
	for _, subscriber := range subscribers[1:] {
		subscriber.Kill()
	}
	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Len(t, received["subscriber0"], 1)
	mu.Unlock()
}

// check that system bus reports lifecycle events
func TestSystemBus(t *testing.T) {
	as := NewActorSystem()
	events := make(chan string, 100)
	_, err := as.BuildActor("SysBusMon", func(ac *Actor, msg ActorMsg) {
		if msg.Type() == MsgTypeEvent {
			events <- msg.Data().(string)
		}
	}).WithEnter(func(ac *Actor) {
		ac.ActorSystem().SystemBus().Subscribe(ac.Ref(), ActorLifecycle+"|"+ActorProblem, nil)
	}).Run()
	require.NoError(t, err)

	a, err := as.NewActor("mortal", func(*Actor, ActorMsg) {})
	require.NoError(t, err)
	a.Kill()

	want := []string{"mortal registered", "mortal enterFunc", "mortal running",
		"mortal exitFunc", "mortal unregistered", "mortal swallowed poison"}
	for _, w := range want {
		select {
		case e := <-events:
			for !strings.HasPrefix(e, "mortal") {
				e = <-events
			}
			assert.Equal(t, w, e)
		case <-time.After(time.Second):
			t.Fatalf("missing event %q", w)
		}
	}
}

// check that we can make an actor loop function
// by closing over local variables
func makeChanWriterFn(ch chan string) func(*Actor, ActorMsg) {
	return func(_ *Actor, msg ActorMsg) {
		str := msg.Data().(string)
		ch <- str
	}
}
