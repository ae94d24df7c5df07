package util

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestCloseResource(t *testing.T) {
	c := &closer{err: errors.New("already closed")}
	CloseResource("test", c)
	assert.True(t, c.closed)
}
