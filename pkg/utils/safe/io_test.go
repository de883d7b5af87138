package safe_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/corpus-tools/textreuse/pkg/utils/safe"
)

type errCloser struct{ closed bool }

func (c *errCloser) Close() error {
	c.closed = true
	return nil
}

func TestClose(t *testing.T) {
	ctx := context.Background()

	t.Run("closes the closer", func(t *testing.T) {
		c := &errCloser{}
		safe.Close(ctx, c)
		gt.Bool(t, c.closed).True()
	})

	t.Run("nil closer is a no-op", func(t *testing.T) {
		safe.Close(ctx, nil)
	})
}

func TestWrite(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the data", func(t *testing.T) {
		var buf bytes.Buffer
		safe.Write(ctx, &buf, []byte("hello"))
		gt.Value(t, buf.String()).Equal("hello")
	})

	t.Run("nil writer is a no-op", func(t *testing.T) {
		safe.Write(ctx, nil, []byte("hello"))
	})
}
