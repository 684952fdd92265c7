package chat_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/vendia/internal/chat"
)

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	t.Run("empty candidate mints a new id", func(t *testing.T) {
		t.Parallel()

		r := chat.NewRegistry(time.Hour, 100, 20)
		id, sess := r.Resolve("")
		require.NotNil(t, sess)
		assert.Equal(t, uuid.Version(4), id.Version())
		assert.Equal(t, 1, r.Len())
	})

	t.Run("malformed candidate mints a new id", func(t *testing.T) {
		t.Parallel()

		r := chat.NewRegistry(time.Hour, 100, 20)
		id, sess := r.Resolve("not-a-uuid")
		require.NotNil(t, sess)
		assert.NotEqual(t, uuid.Nil, id)
	})

	t.Run("unknown valid uuid mints a new id", func(t *testing.T) {
		t.Parallel()

		r := chat.NewRegistry(time.Hour, 100, 20)
		stranger := uuid.New().String()
		id, _ := r.Resolve(stranger)
		assert.NotEqual(t, stranger, id.String())
	})

	t.Run("known id reuses state", func(t *testing.T) {
		t.Parallel()

		r := chat.NewRegistry(time.Hour, 100, 20)
		id, sess := r.Resolve("")

		again, sess2 := r.Resolve(id.String())
		assert.Equal(t, id, again)
		assert.Same(t, sess, sess2)
		assert.Equal(t, 1, r.Len())
	})

	t.Run("distinct sessions stay isolated", func(t *testing.T) {
		t.Parallel()

		r := chat.NewRegistry(time.Hour, 100, 20)
		a, sessA := r.Resolve("")
		b, sessB := r.Resolve("")
		assert.NotEqual(t, a, b)
		assert.NotSame(t, sessA, sessB)
		assert.Equal(t, 2, r.Len())
	})

	t.Run("cap evicts the oldest session", func(t *testing.T) {
		t.Parallel()

		r := chat.NewRegistry(time.Hour, 2, 20)
		first, _ := r.Resolve("")
		second, _ := r.Resolve("")
		r.Resolve("")
		assert.Equal(t, 2, r.Len())

		// The second survives and still resolves to itself.
		kept, _ := r.Resolve(second.String())
		assert.Equal(t, second, kept)

		// The first session was the least recently touched, so it is gone.
		refreshed, _ := r.Resolve(first.String())
		assert.NotEqual(t, first, refreshed)
	})
}

func TestRegistrySweep(t *testing.T) {
	t.Parallel()

	r := chat.NewRegistry(time.Minute, 100, 20)
	id, _ := r.Resolve("")
	require.Equal(t, 1, r.Len())

	// Before the TTL elapses nothing is evicted.
	assert.Zero(t, r.Sweep(time.Now()))
	assert.Equal(t, 1, r.Len())

	// Past the TTL the session is gone and the id no longer resolves.
	assert.Equal(t, 1, r.Sweep(time.Now().Add(2*time.Minute)))
	assert.Zero(t, r.Len())

	fresh, _ := r.Resolve(id.String())
	assert.NotEqual(t, id, fresh)
}
