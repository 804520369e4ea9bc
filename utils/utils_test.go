package utils

import (
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestDeref(t *testing.T) {
	assert.Equal(t, "annie", Deref(StringPtr("annie")))
	assert.Equal(t, "", Deref[string](nil))
	assert.Equal(t, 7, Deref(Ptr(7)))
}
