package context

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrent_RoundTrip(t *testing.T) {
	current := NewCurrent()
	current.Set(KeyRequestID, "abc")

	ctx := WithCurrent(context.Background(), current)

	got, ok := FromContext(ctx)

	assert.True(t, ok)
	assert.Equal(t, "abc", got.RequestID())
}

func TestGetCurrent_Missing(t *testing.T) {
	current := GetCurrent(context.Background())

	assert.NotNil(t, current)
	assert.Empty(t, current.RequestID())
	assert.Nil(t, current.Get(KeyPath))
}

func TestCurrent_ConcurrentAccess(t *testing.T) {
	current := NewCurrent()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			current.Set(KeyPath, n)
			current.Get(KeyPath)
		}(i)
	}
	wg.Wait()

	_, isInt := current.Get(KeyPath).(int)
	assert.True(t, isInt)
}
