package services

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingStoreAddAndGet(t *testing.T) {
	store := NewMemoryPendingStore(time.Minute)

	pm := &PendingMeal{OwnerID: "100", InputKind: InputText, InputRef: "chicken rice"}
	key := store.Add(pm)

	assert.True(t, strings.HasPrefix(key, "t_"))
	assert.Equal(t, key, pm.Key)
	assert.False(t, pm.CreatedAt.IsZero())

	got, ok := store.Get("100", key)
	require.True(t, ok)
	assert.Equal(t, "chicken rice", got.InputRef)

	_, ok = store.Get("200", key)
	assert.False(t, ok, "keys are scoped per owner")
}

func TestPendingStorePhotoPrefix(t *testing.T) {
	store := NewMemoryPendingStore(time.Minute)

	key := store.Add(&PendingMeal{OwnerID: "100", InputKind: InputPhoto, InputRef: "s3://bucket/x.jpg"})
	assert.True(t, strings.HasPrefix(key, "p_"))
}

func TestPendingStoreSameInputReusesKey(t *testing.T) {
	store := NewMemoryPendingStore(time.Minute)

	first := store.Add(&PendingMeal{OwnerID: "100", InputKind: InputText, InputRef: "laksa"})
	second := store.Add(&PendingMeal{OwnerID: "100", InputKind: InputText, InputRef: "laksa"})
	assert.Equal(t, first, second)
}

func TestPendingStoreCollisionProbing(t *testing.T) {
	store := NewMemoryPendingStore(time.Minute)

	// Plant a different input under the key "mee goreng" would hash to.
	occupied := pendingKey(InputText, "mee goreng", 0)
	store.meals["100"] = map[string]*PendingMeal{
		occupied: {OwnerID: "100", Key: occupied, InputRef: "laksa", LastTouched: time.Now()},
	}

	key := store.Add(&PendingMeal{OwnerID: "100", InputKind: InputText, InputRef: "mee goreng"})
	assert.NotEqual(t, occupied, key)
	assert.Equal(t, pendingKey(InputText, "mee goreng", 1), key)

	got, ok := store.Get("100", occupied)
	require.True(t, ok)
	assert.Equal(t, "laksa", got.InputRef, "older in-flight meal survives")
}

func TestPendingStoreTTLEviction(t *testing.T) {
	store := NewMemoryPendingStore(50 * time.Millisecond)

	key := store.Add(&PendingMeal{OwnerID: "100", InputKind: InputText, InputRef: "prata"})

	_, ok := store.Get("100", key)
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond)
	_, ok = store.Get("100", key)
	assert.False(t, ok, "stale entries are evicted")
}

func TestPendingStoreDelete(t *testing.T) {
	store := NewMemoryPendingStore(time.Minute)

	key := store.Add(&PendingMeal{OwnerID: "100", InputKind: InputText, InputRef: "kaya toast"})
	store.Delete("100", key)

	_, ok := store.Get("100", key)
	assert.False(t, ok)

	// Deleting again is a no-op.
	store.Delete("100", key)
}
