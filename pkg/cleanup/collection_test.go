package cleanup

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/treesweep/pkg/errors"
	"github.com/arthur-debert/treesweep/pkg/tree"
)

// fakeRegistrar records registration traffic like a menu system would.
type fakeRegistrar struct {
	registered   []string
	deregistered []string
	failFor      map[string]bool
}

func (r *fakeRegistrar) Register(c *Cleanup) error {
	if r.failFor[c.ID] {
		return fmt.Errorf("registrar rejected %s", c.ID)
	}
	r.registered = append(r.registered, c.ID)
	return nil
}

func (r *fakeRegistrar) Deregister(id string) {
	r.deregistered = append(r.deregistered, id)
}

// mapStore is an in-memory ConfigStore for tests.
type mapStore struct {
	values  map[string]interface{}
	failSet bool
}

func newMapStore() *mapStore {
	return &mapStore{values: make(map[string]interface{})}
}

func (s *mapStore) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

func (s *mapStore) GetString(key, def string) string {
	if v, ok := s.values[key].(string); ok {
		return v
	}
	return def
}

func (s *mapStore) GetBool(key string, def bool) bool {
	if v, ok := s.values[key].(bool); ok {
		return v
	}
	return def
}

func (s *mapStore) GetInt(key string, def int) int {
	if v, ok := s.values[key].(int); ok {
		return v
	}
	return def
}

func (s *mapStore) Set(key string, value interface{}) error {
	if s.failSet {
		return fmt.Errorf("store is read-only")
	}
	s.values[key] = value
	return nil
}

func TestNewCollection(t *testing.T) {
	col := New(nil)

	assert.True(t, col.IsEmpty())
	assert.Zero(t, col.Size())
	assert.Equal(t, 1, col.NextUserNo())
	assert.Nil(t, col.ByID("anything"))
}

func TestAdd(t *testing.T) {
	t.Run("appends in presentation order", func(t *testing.T) {
		col := New(nil)

		require.NoError(t, col.Add(&Cleanup{ID: "b", Title: "second"}))
		require.NoError(t, col.Add(&Cleanup{ID: "a", Title: "first added later"}))

		assert.Equal(t, 2, col.Size())
		assert.Equal(t, "b", col.At(0).ID)
		assert.Equal(t, "a", col.At(1).ID)
	})

	t.Run("rejects duplicate id", func(t *testing.T) {
		col := New(nil)
		original := &Cleanup{ID: "x", Title: "original"}
		require.NoError(t, col.Add(original))

		err := col.Add(&Cleanup{ID: "x", Title: "impostor"})

		assert.True(t, errors.IsErrorCode(err, errors.ErrCleanupDuplicate))
		assert.Equal(t, 1, col.Size())
		assert.Same(t, original, col.ByID("x"))
		assert.Equal(t, "original", col.ByID("x").Title)
	})

	t.Run("rejects nil and empty id", func(t *testing.T) {
		col := New(nil)

		assert.True(t, errors.IsErrorCode(col.Add(nil), errors.ErrInvalidInput))
		assert.True(t, errors.IsErrorCode(col.Add(&Cleanup{}), errors.ErrInvalidInput))
		assert.True(t, col.IsEmpty())
	})

	t.Run("registers with host context", func(t *testing.T) {
		host := &fakeRegistrar{}
		col := New(host)

		require.NoError(t, col.Add(&Cleanup{ID: "x"}))

		assert.Equal(t, []string{"x"}, host.registered)
	})

	t.Run("host rejection leaves collection unchanged", func(t *testing.T) {
		host := &fakeRegistrar{failFor: map[string]bool{"x": true}}
		col := New(host)

		err := col.Add(&Cleanup{ID: "x"})

		assert.Error(t, err)
		assert.True(t, col.IsEmpty())
		assert.Nil(t, col.ByID("x"))
	})
}

func TestByID(t *testing.T) {
	col := New(nil)
	require.NoError(t, col.AddStdCleanups())

	t.Run("finds present ids", func(t *testing.T) {
		c := col.ByID(StdCompress)
		require.NotNil(t, c)
		assert.Equal(t, StdCompress, c.ID)
	})

	t.Run("missing id is nil, not a failure", func(t *testing.T) {
		assert.Nil(t, col.ByID("cleanup_no_such_thing"))
	})
}

func TestAddStdCleanups(t *testing.T) {
	col := New(nil)
	require.NoError(t, col.AddStdCleanups())

	assert.Equal(t, len(StdCleanups()), col.Size())
	for _, c := range StdCleanups() {
		assert.NotNil(t, col.ByID(c.ID), "standard cleanup %s missing", c.ID)
	}

	t.Run("second call collides instead of duplicating", func(t *testing.T) {
		err := col.AddStdCleanups()
		assert.True(t, errors.IsErrorCode(err, errors.ErrCleanupDuplicate))
	})
}

func TestAddUserCleanups(t *testing.T) {
	t.Run("assigns increasing numbers", func(t *testing.T) {
		col := New(nil)

		require.NoError(t, col.AddUserCleanups(3))

		assert.Equal(t, 3, col.Size())
		assert.NotNil(t, col.ByID("cleanup_user_defined_1"))
		assert.NotNil(t, col.ByID("cleanup_user_defined_2"))
		assert.NotNil(t, col.ByID("cleanup_user_defined_3"))
		assert.Equal(t, 4, col.NextUserNo())

		for _, c := range col.Cleanups() {
			assert.True(t, c.UserDefined)
			assert.False(t, c.Enabled)
		}
	})

	t.Run("numbering survives clear", func(t *testing.T) {
		col := New(nil)
		require.NoError(t, col.AddUserCleanups(2))

		col.Clear()
		require.NoError(t, col.AddUserCleanups(1))

		assert.Equal(t, 1, col.Size())
		assert.Nil(t, col.ByID("cleanup_user_defined_1"))
		assert.NotNil(t, col.ByID("cleanup_user_defined_3"))
		assert.Equal(t, 4, col.NextUserNo())
	})
}

func TestClear(t *testing.T) {
	host := &fakeRegistrar{}
	col := New(host)
	require.NoError(t, col.AddStdCleanups())
	require.NoError(t, col.AddUserCleanups(2))
	sizeBefore := col.Size()

	col.Clear()

	assert.Zero(t, col.Size())
	assert.True(t, col.IsEmpty())
	assert.Nil(t, col.ByID(StdCompress))
	assert.Nil(t, col.ByID("cleanup_user_defined_1"))
	assert.Len(t, host.deregistered, sizeBefore)
	assert.Equal(t, 3, col.NextUserNo(), "counter must survive Clear")
}

func TestClone(t *testing.T) {
	host := &fakeRegistrar{}
	src := New(host)
	require.NoError(t, src.AddStdCleanups())
	require.NoError(t, src.AddUserCleanups(2))

	clone := src.Clone()

	t.Run("same order, ids and settings", func(t *testing.T) {
		require.Equal(t, src.Size(), clone.Size())
		for i, original := range src.Cleanups() {
			copied := clone.At(i)
			assert.Equal(t, original.ID, copied.ID)
			assert.Equal(t, original.Title, copied.Title)
			assert.Equal(t, original.Command, copied.Command)
			assert.Equal(t, original.UserDefined, copied.UserDefined)
			assert.Equal(t, original.RefreshPolicy, copied.RefreshPolicy)
			assert.NotSame(t, original, copied)
		}
		assert.Equal(t, src.NextUserNo(), clone.NextUserNo())
	})

	t.Run("no live wiring on the copy", func(t *testing.T) {
		registeredBefore := len(host.registered)
		require.NoError(t, clone.Add(&Cleanup{ID: "cleanup_extra"}))
		assert.Len(t, host.registered, registeredBefore, "clone must not reach the original host")

		for _, c := range clone.Cleanups() {
			assert.Nil(t, c.host)
			assert.Nil(t, c.onExecuted)
		}
	})

	t.Run("mutating either side does not affect the other", func(t *testing.T) {
		clone.ByID(StdCompress).Title = "changed on clone"
		assert.Equal(t, "Compress", src.ByID(StdCompress).Title)

		src.ByID(StdMakeClean).Enabled = false
		assert.True(t, clone.ByID(StdMakeClean).Enabled)

		clone.Clear()
		assert.NotZero(t, src.Size())
	})
}

func TestAssign(t *testing.T) {
	t.Run("replaces contents with a deep copy", func(t *testing.T) {
		src := New(nil)
		require.NoError(t, src.AddStdCleanups())
		require.NoError(t, src.AddUserCleanups(1))

		dst := New(&fakeRegistrar{})
		require.NoError(t, dst.AddUserCleanups(5))

		dst.Assign(src)

		assert.Equal(t, src.Size(), dst.Size())
		assert.Equal(t, src.NextUserNo(), dst.NextUserNo())
		assert.NotNil(t, dst.ByID("cleanup_user_defined_1"))
		assert.Nil(t, dst.ByID("cleanup_user_defined_5"))

		// Deep, not shared.
		dst.ByID(StdCompress).Title = "local edit"
		assert.Equal(t, "Compress", src.ByID(StdCompress).Title)
	})

	t.Run("self-assignment is a no-op", func(t *testing.T) {
		col := New(nil)
		require.NoError(t, col.AddStdCleanups())
		entriesBefore := col.Cleanups()

		col.Assign(col)

		require.Equal(t, len(entriesBefore), col.Size())
		for i, c := range entriesBefore {
			assert.Same(t, c, col.At(i), "entries must be untouched")
		}
	})

	t.Run("nil source is a no-op", func(t *testing.T) {
		col := New(nil)
		require.NoError(t, col.AddStdCleanups())

		col.Assign(nil)

		assert.Equal(t, len(StdCleanups()), col.Size())
	})

	t.Run("releases previous entries from the host", func(t *testing.T) {
		host := &fakeRegistrar{}
		dst := New(host)
		require.NoError(t, dst.AddUserCleanups(2))

		src := New(nil)
		require.NoError(t, src.AddUserCleanups(1))

		dst.Assign(src)

		assert.Equal(t, []string{"cleanup_user_defined_1", "cleanup_user_defined_2"}, host.deregistered)

		// The assigned-to collection is inert, like a clone: later adds
		// no longer reach the old host.
		registeredBefore := len(host.registered)
		require.NoError(t, dst.Add(&Cleanup{ID: "cleanup_extra"}))
		assert.Len(t, host.registered, registeredBefore)
	})
}

func TestReadConfigBroadcast(t *testing.T) {
	t.Run("reaches every cleanup", func(t *testing.T) {
		col := New(nil)
		require.NoError(t, col.AddStdCleanups())

		store := newMapStore()
		store.values["cleanup_compress.title"] = "Squash"
		store.values["cleanup_make_clean.enabled"] = false

		require.NoError(t, col.ReadConfig(store))

		assert.Equal(t, "Squash", col.ByID(StdCompress).Title)
		assert.False(t, col.ByID(StdMakeClean).Enabled)
		// Untouched keys keep their defaults.
		assert.Equal(t, "make clean", col.ByID(StdMakeClean).Command)
	})

	t.Run("a failing cleanup does not stop the broadcast", func(t *testing.T) {
		col := New(nil)
		require.NoError(t, col.AddStdCleanups())

		store := newMapStore()
		store.values["cleanup_compress.refresh_policy"] = "bogus"
		store.values["cleanup_hard_delete.title"] = "Obliterate"

		err := col.ReadConfig(store)

		var agg *errors.BroadcastError
		require.ErrorAs(t, err, &agg)
		assert.Equal(t, 1, agg.Len())
		assert.Contains(t, agg.Failures, StdCompress)

		// Cleanups after the failing one were still reached.
		assert.Equal(t, "Obliterate", col.ByID(StdHardDelete).Title)
	})
}

func TestSaveConfigBroadcast(t *testing.T) {
	t.Run("persists every cleanup", func(t *testing.T) {
		col := New(nil)
		require.NoError(t, col.AddStdCleanups())
		col.ByID(StdMakeClean).Enabled = false

		store := newMapStore()
		require.NoError(t, col.SaveConfig(store))

		assert.Equal(t, false, store.values["cleanup_make_clean.enabled"])
		assert.Equal(t, "rm -rf %p", store.values["cleanup_hard_delete.command"])
		assert.Equal(t, "assumeDeleted", store.values["cleanup_hard_delete.refresh_policy"])
	})

	t.Run("aggregates store failures per cleanup", func(t *testing.T) {
		col := New(nil)
		require.NoError(t, col.AddStdCleanups())

		store := newMapStore()
		store.failSet = true

		err := col.SaveConfig(store)

		var agg *errors.BroadcastError
		require.ErrorAs(t, err, &agg)
		assert.Equal(t, col.Size(), agg.Len())
	})
}

func TestSelectionChangedBroadcast(t *testing.T) {
	col := New(nil)
	require.NoError(t, col.AddStdCleanups())

	dir := &tree.FileInfo{Name: "src", Path: "/work/src", Kind: tree.KindDir}
	col.SelectionChanged(dir)

	for _, c := range col.Cleanups() {
		assert.Same(t, dir, c.CurrentTarget())
	}
	assert.True(t, col.ByID(StdMakeClean).Active())

	t.Run("nil means selection cleared and is forwarded", func(t *testing.T) {
		col.SelectionChanged(nil)

		for _, c := range col.Cleanups() {
			assert.Nil(t, c.CurrentTarget())
			assert.False(t, c.Active())
		}
	})
}

func TestUserActivity(t *testing.T) {
	col := New(nil)
	require.NoError(t, col.AddStdCleanups())

	var points []int
	col.OnUserActivity = func(p int) { points = append(points, p) }

	item := &tree.FileInfo{Name: "src", Path: "/work/src", Kind: tree.KindDir}
	runner := &stubRunner{}
	require.NoError(t, col.ByID(StdMakeClean).Execute(context.Background(), item, runner))
	require.NoError(t, col.ByID(StdMakeClean).Execute(context.Background(), item, runner))

	assert.Equal(t, []int{UserActivityPoints, UserActivityPoints}, points)
}

func TestAddExampleScenario(t *testing.T) {
	// Start empty, add the standard set, then a custom cleanup, then
	// collide with it.
	col := New(nil)
	require.True(t, col.IsEmpty())

	require.NoError(t, col.AddStdCleanups())
	stdCount := col.Size()

	custom := &Cleanup{ID: "x", Title: "mine", Enabled: true}
	require.NoError(t, col.Add(custom))
	assert.Equal(t, stdCount+1, col.Size())

	err := col.Add(&Cleanup{ID: "x", Title: "clash"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrCleanupDuplicate))

	got := col.ByID("x")
	require.NotNil(t, got)
	assert.Same(t, custom, got)
	assert.Equal(t, "mine", got.Title)
}
