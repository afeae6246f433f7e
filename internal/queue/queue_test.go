package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue(t *testing.T) {
	assert := assert.New(t)

	t.Run("Empty Queue", func(t *testing.T) {
		q := New[int](1)

		assert.True(q.IsEmpty())
		assert.Equal(0, q.Length())
		_, ok := q.Dequeue()
		assert.False(ok)
		_, ok = q.Peek()
		assert.False(ok)
		assert.Empty(q.DequeueAll())
	})

	t.Run("Enqueue and Dequeue", func(t *testing.T) {
		q := New[string](1)
		q.Enqueue("a", "b")
		q.Enqueue("c")
		assert.Equal(3, q.Length())

		head, ok := q.Peek()
		assert.True(ok)
		assert.Equal("a", head)
		assert.Equal(3, q.Length())

		for _, want := range []string{"a", "b", "c"} {
			got, ok := q.Dequeue()
			assert.True(ok)
			assert.Equal(want, got)
		}
		assert.True(q.IsEmpty())
	})

	t.Run("DequeueAll and Reset", func(t *testing.T) {
		q := New[[]byte](0)
		q.Enqueue([]byte{1}, []byte{2})

		assert.Equal([][]byte{{1}, {2}}, q.DequeueAll())
		assert.True(q.IsEmpty())

		q.Enqueue([]byte{3})
		q.Reset()
		assert.Equal(0, q.Length())
	})
}
