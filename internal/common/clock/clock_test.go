package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystem_Now(t *testing.T) {
	c := System{}
	before := time.Now()
	got := c.Now()
	after := time.Now()

	assert.False(t, got.Before(before))
	assert.False(t, got.After(after))
}

func TestFixed_Now(t *testing.T) {
	fixed := time.Date(2025, 6, 15, 23, 30, 0, 0, time.UTC)
	c := At(fixed)

	assert.Equal(t, fixed, c.Now())
	// 固定时钟不随时间流逝变化
	time.Sleep(time.Millisecond)
	assert.Equal(t, fixed, c.Now())
}
