package cleanup

import (
	"fmt"

	"github.com/arthur-debert/treesweep/pkg/errors"
	"github.com/arthur-debert/treesweep/pkg/logging"
	"github.com/arthur-debert/treesweep/pkg/tree"
)

// UserActivityPoints is the activity value reported upward each time an
// owned cleanup runs.
const UserActivityPoints = 10

// firstUserCleanupNo is where user cleanup numbering starts.
const firstUserCleanupNo = 1

// Collection owns an ordered set of cleanups: the predefined standard ones
// plus any number of user-defined ones. Entry order is presentation order
// and is preserved. Ids are unique across the collection; lookup goes
// through an id index rebuilt on every structural mutation.
//
// Deep copies (Clone, Assign) exist for save/restore: they replicate ids,
// settings and the user-cleanup counter, but never the host registration
// or any other live wiring.
type Collection struct {
	host    Registrar
	entries []*Cleanup
	index   map[string]int

	// nextUserNo only ever grows, even across Clear, so numeric ids handed
	// out once are never reused within the collection's lifetime.
	nextUserNo int

	// OnUserActivity, when set, receives an activity point value each time
	// an owned cleanup runs.
	OnUserActivity func(points int)
}

// New creates an empty collection. Every cleanup later added is registered
// with the given host context; pass nil to skip registration entirely.
func New(host Registrar) *Collection {
	return &Collection{
		host:       host,
		index:      make(map[string]int),
		nextUserNo: firstUserCleanupNo,
	}
}

// Add appends a cleanup, preserving presentation order, and takes
// ownership. The cleanup is wired to the host context and to the
// collection's executed hook. A colliding id is rejected with
// ErrCleanupDuplicate; the collection is unchanged in that case.
func (col *Collection) Add(c *Cleanup) error {
	if c == nil {
		return errors.New(errors.ErrInvalidInput, "cannot add nil cleanup")
	}
	if c.ID == "" {
		return errors.New(errors.ErrInvalidInput, "cleanup id cannot be empty")
	}
	if _, exists := col.index[c.ID]; exists {
		return errors.Newf(errors.ErrCleanupDuplicate, "cleanup %q is already in the collection", c.ID).
			WithDetail("id", c.ID)
	}

	c.host = col.host
	c.onExecuted = col.cleanupExecuted
	if col.host != nil {
		if err := col.host.Register(c); err != nil {
			c.host = nil
			c.onExecuted = nil
			return errors.Wrapf(err, errors.ErrInternal, "failed to register cleanup %q", c.ID)
		}
	}

	col.entries = append(col.entries, c)
	col.index[c.ID] = len(col.entries) - 1

	logger := logging.GetLogger("cleanup")
	logger.Debug().
		Str("id", c.ID).
		Bool("userDefined", c.UserDefined).
		Int("size", len(col.entries)).
		Msg("Cleanup added")
	return nil
}

// AddStdCleanups appends the fixed set of standard cleanups. It is not
// idempotent: a second call collides with the ids added by the first and
// fails; callers wanting a fresh standard set must Clear first.
func (col *Collection) AddStdCleanups() error {
	for _, c := range StdCleanups() {
		if err := col.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// AddUserCleanups appends count placeholder user-defined cleanups. Each
// consumes one number from the user cleanup counter; the counter never
// runs backwards, even when user cleanups are removed later.
func (col *Collection) AddUserCleanups(count int) error {
	for i := 0; i < count; i++ {
		c := NewUserCleanup(col.nextUserNo)
		col.nextUserNo++
		if err := col.Add(c); err != nil {
			return err
		}
	}
	return nil
}

// ByID returns the cleanup with the given id, or nil when absent. A
// missing id is a normal outcome, not an error.
func (col *Collection) ByID(id string) *Cleanup {
	pos, ok := col.index[id]
	if !ok {
		return nil
	}
	return col.entries[pos]
}

// At returns the cleanup at the given position in presentation order.
func (col *Collection) At(i int) *Cleanup {
	return col.entries[i]
}

// Cleanups returns a snapshot of the entries in presentation order. The
// slice is the caller's; the cleanups stay owned by the collection.
func (col *Collection) Cleanups() []*Cleanup {
	snapshot := make([]*Cleanup, len(col.entries))
	copy(snapshot, col.entries)
	return snapshot
}

// Size returns the number of cleanups in the collection.
func (col *Collection) Size() int {
	return len(col.entries)
}

// IsEmpty reports whether the collection holds no cleanups.
func (col *Collection) IsEmpty() bool {
	return len(col.entries) == 0
}

// NextUserNo returns the number the next user cleanup will be assigned.
func (col *Collection) NextUserNo() int {
	return col.nextUserNo
}

// Clear removes and releases every cleanup. The user cleanup counter is
// deliberately NOT reset so numeric ids are never reused while the
// collection lives; only a brand-new collection starts counting over.
func (col *Collection) Clear() {
	col.release()
	logger := logging.GetLogger("cleanup")
	logger.Debug().Int("nextUserNo", col.nextUserNo).Msg("Collection cleared")
}

// release detaches and drops all entries without touching the counter.
func (col *Collection) release() {
	for _, c := range col.entries {
		if col.host != nil {
			col.host.Deregister(c.ID)
		}
		c.host = nil
		c.onExecuted = nil
	}
	col.entries = nil
	col.index = make(map[string]int)
}

// Clone returns a deep, fully independent copy for save/restore: same
// ordered ids, settings and user-cleanup counter, but no host context and
// no live wiring anywhere. Do not drive a clone like the original.
func (col *Collection) Clone() *Collection {
	clone := New(nil)
	clone.deepCopy(col)
	return clone
}

// Assign replaces the collection's contents with a deep copy of src,
// carrying assignment-operator semantics: current entries are released
// first, then src is copied entry by entry, and finally the user cleanup
// counter is taken verbatim from src. The host context is dropped along
// with the old entries, so an assigned-to collection is as inert as a
// Clone. Assigning a collection to itself is a no-op.
func (col *Collection) Assign(src *Collection) {
	if src == col || src == nil {
		return
	}
	col.release()
	col.host = nil
	col.nextUserNo = firstUserCleanupNo
	col.deepCopy(src)
}

// deepCopy appends clones of src's entries to an empty collection and
// copies the counter. Callers guarantee the receiver is empty.
func (col *Collection) deepCopy(src *Collection) {
	for _, c := range src.entries {
		clone := c.Clone()
		col.entries = append(col.entries, clone)
		col.index[clone.ID] = len(col.entries) - 1
	}
	col.nextUserNo = src.nextUserNo
}

// ReadConfig broadcasts "read your config" to every cleanup in order. A
// failing cleanup is recorded and the broadcast continues; the aggregate
// is returned, nil when everything succeeded.
func (col *Collection) ReadConfig(store ConfigStore) error {
	agg := errors.NewBroadcastError("readConfig")
	for _, c := range col.entries {
		agg.Record(c.ID, c.ReadConfig(store))
	}
	return agg.OrNil()
}

// SaveConfig broadcasts "save your config" to every cleanup in order,
// with the same failure isolation as ReadConfig.
func (col *Collection) SaveConfig(store ConfigStore) error {
	agg := errors.NewBroadcastError("saveConfig")
	for _, c := range col.entries {
		agg.Record(c.ID, c.SaveConfig(store))
	}
	return agg.OrNil()
}

// SelectionChanged forwards the newly selected entry to every cleanup in
// order. A nil item means the selection was cleared and is forwarded as
// such, never swallowed.
func (col *Collection) SelectionChanged(item *tree.FileInfo) {
	for _, c := range col.entries {
		c.SelectionChanged(item)
	}
}

// cleanupExecuted is wired to every owned cleanup and reports user
// activity upward. It never mutates the collection.
func (col *Collection) cleanupExecuted() {
	if col.OnUserActivity != nil {
		col.OnUserActivity(UserActivityPoints)
	}
}

// String describes the collection for logs.
func (col *Collection) String() string {
	return fmt.Sprintf("CleanupCollection(size=%d, nextUserNo=%d)", len(col.entries), col.nextUserNo)
}
