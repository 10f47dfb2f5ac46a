package shelf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseInto(t *testing.T) {
	errClose := errors.New("close failed")
	errScan := errors.New("scan failed")

	t.Run("clean close keeps result", func(t *testing.T) {
		var err error
		closeInto(&err, closerFunc(func() error { return nil }))
		assert.NoError(t, err)
	})

	t.Run("close failure is returned", func(t *testing.T) {
		var err error
		closeInto(&err, closerFunc(func() error { return errClose }))
		assert.ErrorIs(t, err, errClose)
	})

	t.Run("close failure joins earlier error", func(t *testing.T) {
		err := errScan
		closeInto(&err, closerFunc(func() error { return errClose }))
		assert.ErrorIs(t, err, errScan)
		assert.ErrorIs(t, err, errClose)
	})
}
