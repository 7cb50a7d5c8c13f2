// treeset project doc.go

/*
Package treeset implements an ordered set of integers as a binary search
tree of actors. Every tree node is its own actor holding one element, a
tombstone flag and up to two children; nodes share nothing and talk only
through messages.

A manager actor is the entry point. It forwards Insert, Contains and Remove
to the root node, which routes them down the tree; the node that completes
an operation replies straight to the operation's Requester. Remove only
marks a node as removed, so the tree never shrinks on its own.

A GC message compacts the tree. The manager creates a new root and asks the
old root to copy itself into it: each node inserts its element into the new
tree (unless removed), passes the request to its children, and once its own
insert and all of its children are done it reports to its parent and stops.
Operations arriving while a collection runs are held by the manager and
replayed in arrival order against the new root.

The tree is not balanced.

	as := actor.NewActorSystem()
	set, _ := treeset.New(as, "numbers")
	client, _ := treeset.NewClient(as, set, time.Second)
	client.Insert(ctx, 42)
	ok, _ := client.Contains(ctx, 42)
*/
package treeset
