package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeCache_SetGet(t *testing.T) {
	c := New(1)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestNew_DisabledIsNoop(t *testing.T) {
	c := New(0)
	c.Set("k", []byte("v"))
	_, ok := c.Get("k")
	assert.False(t, ok)
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key(3, "ED"), Key(3, "  ed "))
	assert.NotEqual(t, Key(3, "ed"), Key(4, "ed"))
	assert.Equal(t, "7|", Key(7, "   "))
}
