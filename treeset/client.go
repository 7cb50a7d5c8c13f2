// client
package treeset

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/pacs008/actor"
	log "github.com/sirupsen/logrus"
)

var (
	ErrTimeout = errors.New("treeset: operation timed out")
	ErrStopped = errors.New("treeset: client stopped")
)

var clientSeq atomic.Int64

// Client is a blocking front end for a set. Operations are
// sent to the manager with a hidden reply actor as requester;
// the reply actor hands each reply to the waiting caller.
// A Client is safe for concurrent use.
type Client struct {
	manager *actor.ActorRef
	replies *actor.ActorRef
	ids     *snowflake.Node
	timeout time.Duration
	stopped atomic.Bool
}

// a caller waiting for a reply
type awaitReply struct {
	id  int
	ch  chan OperationReply
	ttl time.Time
}

// the caller gave up on id
type forgetReply struct {
	id int
}

type purgeReplies struct{}

// pending reply awaiting delivery
type pendingReply struct {
	ch  chan OperationReply
	ttl time.Time
}

// NewClient creates a client for the set managed by manager.
// Each operation waits at most timeout for its reply.
func NewClient(as *actor.ActorSystem, manager *actor.ActorRef, timeout time.Duration) (*Client, error) {
	if timeout < time.Millisecond {
		return nil, fmt.Errorf("Invalid timeout %v: must be at least 1ms", timeout)
	}
	if strconv.IntSize < 64 {
		return nil, errors.New("treeset: client needs 64-bit ints for correlation ids")
	}
	seq := clientSeq.Add(1)
	ids, err := snowflake.NewNode(seq % 1024)
	if err != nil {
		return nil, err
	}

	pending := make(map[int]pendingReply)
	replies, err := as.BuildActor(fmt.Sprintf("%v/client/%d", manager.Name(), seq), func(a *actor.Actor, msg actor.ActorMsg) {
		switch m := msg.Data().(type) {
		case awaitReply:
			pending[m.id] = pendingReply{m.ch, m.ttl}
		case forgetReply:
			delete(pending, m.id)
		case purgeReplies:
			now := time.Now()
			for id, p := range pending {
				if now.After(p.ttl) {
					log.WithFields(log.Fields{
						"client": a.Name(),
						"id":     id,
					}).Debug("Purging expired reply")
					delete(pending, id)
				}
			}
		case OperationReply:
			p, ok := pending[m.ReplyID()]
			if !ok {
				log.WithFields(log.Fields{
					"client": a.Name(),
					"id":     m.ReplyID(),
				}).Info("Unmatched reply - send to DLQ")
				a.ActorSystem().ToDeadLetter(msg)
				return
			}
			delete(pending, m.ReplyID())
			p.ch <- m
		default:
			a.ActorSystem().ToDeadLetter(msg)
		}
	}).
		WithHidden().
		WithEnter(func(a *actor.Actor) {
			a.Every(timeout, purgeReplies{})
		}).
		Run()
	if err != nil {
		return nil, err
	}

	return &Client{
		manager: manager,
		replies: replies,
		ids:     ids,
		timeout: timeout,
	}, nil
}

// Insert elem into the set.
func (c *Client) Insert(ctx context.Context, elem int) error {
	_, err := c.do(ctx, func(id int) Operation {
		return Insert{Requester: c.replies, ID: id, Elem: elem}
	})
	return err
}

// Remove elem from the set. Removing an absent element succeeds.
func (c *Client) Remove(ctx context.Context, elem int) error {
	_, err := c.do(ctx, func(id int) Operation {
		return Remove{Requester: c.replies, ID: id, Elem: elem}
	})
	return err
}

// Contains reports whether elem is in the set.
func (c *Client) Contains(ctx context.Context, elem int) (bool, error) {
	reply, err := c.do(ctx, func(id int) Operation {
		return Contains{Requester: c.replies, ID: id, Elem: elem}
	})
	if err != nil {
		return false, err
	}
	result, ok := reply.(ContainsResult)
	if !ok {
		return false, fmt.Errorf("treeset: unexpected reply %T to contains", reply)
	}
	return result.Result, nil
}

// GC asks the manager for a garbage collection. It does not
// wait for the collection to finish.
func (c *Client) GC() {
	if c.stopped.Load() {
		return
	}
	c.manager.Send(GC{}, c.replies)
}

// Stats asks the manager for its current Stats.
func (c *Client) Stats() (Stats, error) {
	rsp, err := c.manager.Call(StatsMethod, nil, int(c.timeout/time.Millisecond))
	if err != nil {
		return Stats{}, err
	}
	stats, ok := rsp.(Stats)
	if !ok {
		return Stats{}, fmt.Errorf("treeset: unexpected stats response %T", rsp)
	}
	return stats, nil
}

// Stop the client's reply actor. Calls made afterwards fail
// with ErrStopped.
func (c *Client) Stop() {
	if c.stopped.CompareAndSwap(false, true) {
		c.replies.Kill()
	}
}

func (c *Client) do(ctx context.Context, build func(id int) Operation) (OperationReply, error) {
	if c.stopped.Load() {
		return nil, ErrStopped
	}
	id := c.nextID()
	ch := make(chan OperationReply, 1)
	// registered before the operation is sent, so the reply
	// always finds it
	c.replies.Send(awaitReply{id, ch, time.Now().Add(c.timeout)}, nil)
	c.manager.Send(build(id), c.replies)

	timer := time.NewTimer(c.timeout)
	defer timer.Stop()
	select {
	case reply := <-ch:
		return reply, nil
	case <-ctx.Done():
		c.replies.Send(forgetReply{id}, nil)
		return nil, ctx.Err()
	case <-timer.C:
		c.replies.Send(forgetReply{id}, nil)
		return nil, ErrTimeout
	}
}

// nextID returns a fresh correlation id. Snowflake ids use 63
// bits, which is why NewClient insists on 64-bit ints.
func (c *Client) nextID() int {
	return int(c.ids.Generate().Int64())
}
