// Package cleanup implements treesweep's cleanup actions and the
// collection that owns them.
//
// A Cleanup is a named, user-invocable command applied to entries of a
// scanned directory tree. A Collection owns an ordered set of cleanups,
// looks them up by id, broadcasts configuration and selection events to
// every member, and supports a save/restore deep copy that deliberately
// drops all live wiring (host registration, executed hooks).
//
// The collection is single-threaded by design: it lives on the thread that
// drives the UI/event loop and is only mutated in direct response to user
// or configuration calls, so it carries no locks.
package cleanup
