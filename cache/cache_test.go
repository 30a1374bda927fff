package cache

import (
	"os"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/bawdo/isql/internal/failure"
	"github.com/bawdo/isql/internal/testutil"
)

func TestRetrieveBeforeStore(t *testing.T) {
	t.Parallel()
	c := New(t.TempDir())
	_, err := c.Retrieve()
	testutil.AssertEqual(t, errors.Is(err, ErrNothingCached), true)
	testutil.AssertEqual(t, c.Path(), "")
}

func TestStoreOverwrites(t *testing.T) {
	t.Parallel()
	c := New(t.TempDir())

	testutil.AssertNoError(t, c.Store("first result, quite long"))
	path := c.Path()
	testutil.AssertNoError(t, c.Store("second"))
	testutil.AssertEqual(t, c.Path(), path)

	got, err := c.Retrieve()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, got, "second")
	testutil.AssertEqual(t, c.Size(), len("second"))
}

func TestRemove(t *testing.T) {
	t.Parallel()
	c := New(t.TempDir())
	testutil.AssertNoError(t, c.Remove())

	testutil.AssertNoError(t, c.Store("x"))
	path := c.Path()
	testutil.AssertNoError(t, c.Remove())
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to be removed, stat err = %v", path, err)
	}
	_, err := c.Retrieve()
	testutil.AssertEqual(t, errors.Is(err, ErrNothingCached), true)
}

func TestRemoveAlreadyGone(t *testing.T) {
	t.Parallel()
	c := New(t.TempDir())
	testutil.AssertNoError(t, c.Store("x"))
	testutil.AssertNoError(t, os.Remove(c.Path()))
	testutil.AssertNoError(t, c.Remove())
}

func TestStoreInMissingDirIsResourceError(t *testing.T) {
	t.Parallel()
	c := New(t.TempDir() + "/does/not/exist")
	err := c.Store("x")
	testutil.AssertError(t, err)
	testutil.AssertEqual(t, errors.Is(err, failure.ErrResource), true)
}
