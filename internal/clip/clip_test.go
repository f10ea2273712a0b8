package clip

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	var m Memory
	assert.NoError(t, m.WriteAll("hello"))
	assert.NoError(t, m.WriteAll("world"))
	assert.Equal(t, "world", m.Text())
	assert.Equal(t, 2, m.Writes())

	m.Err = fmt.Errorf("nope")
	assert.Error(t, m.WriteAll("lost"))
	assert.Equal(t, "world", m.Text())
}

func TestInterfaces(t *testing.T) {
	var _ Writer = System{}
	var _ Writer = &Memory{}
}
