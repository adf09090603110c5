package services

import (
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/ngfenglong/JiakAIBot/models"
)

// Input kinds for a pending meal.
const (
	InputPhoto = "photo"
	InputText  = "text"
)

// PendingMeal is an analyzed meal held in memory until the user confirms,
// adjusts, or cancels it. Nothing here touches the database.
type PendingMeal struct {
	Key         string
	OwnerID     string
	CreatedAt   time.Time
	LastTouched time.Time

	InputKind string
	InputRef  string // photo URL or the original text

	FoodDescription string
	Confidence      string

	// Nutrition is the currently displayed totals. RawNutrition is the
	// 1.0x baseline used to rescale without re-querying the gateway.
	Nutrition    models.Nutrition
	RawNutrition models.Nutrition

	PortionMultiplier float64

	// ManuallyAdjusted is set once the user nudges an individual nutrient.
	// From then on RawNutrition no longer describes the displayed totals,
	// so portion changes must go back to the gateway.
	ManuallyAdjusted bool

	// NutritionMissing marks a degraded lookup where totals are zero.
	NutritionMissing bool
}

// PendingMealStore holds per-user pending meals keyed by short callback-safe
// keys. Implementations must be safe for concurrent use.
type PendingMealStore interface {
	// Add assigns a key to pm, stores it, and returns the key.
	Add(pm *PendingMeal) string
	Get(ownerID, key string) (*PendingMeal, bool)
	Update(pm *PendingMeal)
	Delete(ownerID, key string)
}

// MemoryPendingStore is the in-process PendingMealStore. Entries older than
// the TTL are evicted lazily on access.
type MemoryPendingStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	meals map[string]map[string]*PendingMeal // ownerID -> key -> meal
}

func NewMemoryPendingStore(ttl time.Duration) *MemoryPendingStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &MemoryPendingStore{
		ttl:   ttl,
		meals: make(map[string]map[string]*PendingMeal),
	}
}

// Add hashes the input into a short key. Keys must survive a round trip
// through a Telegram callback payload, so they stay well under 20 bytes.
// On a hash collision with a different input, probe until a free slot is
// found so the older in-flight meal survives.
func (s *MemoryPendingStore) Add(pm *PendingMeal) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(pm.OwnerID)

	owned := s.meals[pm.OwnerID]
	if owned == nil {
		owned = make(map[string]*PendingMeal)
		s.meals[pm.OwnerID] = owned
	}

	key := pendingKey(pm.InputKind, pm.InputRef, 0)
	for probe := 1; ; probe++ {
		existing, taken := owned[key]
		if !taken || existing.InputRef == pm.InputRef {
			break
		}
		key = pendingKey(pm.InputKind, pm.InputRef, probe)
	}

	now := time.Now()
	pm.Key = key
	if pm.CreatedAt.IsZero() {
		pm.CreatedAt = now
	}
	pm.LastTouched = now
	owned[key] = pm
	return key
}

func (s *MemoryPendingStore) Get(ownerID, key string) (*PendingMeal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictLocked(ownerID)
	pm, ok := s.meals[ownerID][key]
	if !ok {
		return nil, false
	}
	pm.LastTouched = time.Now()
	return pm, true
}

// Update re-stores a mutated meal. The memory store hands out live pointers
// so this only refreshes the TTL, but external cache implementations need
// the write-back.
func (s *MemoryPendingStore) Update(pm *PendingMeal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owned := s.meals[pm.OwnerID]; owned != nil {
		if _, ok := owned[pm.Key]; ok {
			pm.LastTouched = time.Now()
			owned[pm.Key] = pm
		}
	}
}

func (s *MemoryPendingStore) Delete(ownerID, key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owned := s.meals[ownerID]; owned != nil {
		delete(owned, key)
		if len(owned) == 0 {
			delete(s.meals, ownerID)
		}
	}
}

func (s *MemoryPendingStore) evictLocked(ownerID string) {
	owned := s.meals[ownerID]
	if owned == nil {
		return
	}
	cutoff := time.Now().Add(-s.ttl)
	for key, pm := range owned {
		if pm.LastTouched.Before(cutoff) {
			delete(owned, key)
		}
	}
	if len(owned) == 0 {
		delete(s.meals, ownerID)
	}
}

func pendingKey(kind, ref string, probe int) string {
	prefix := "t_"
	if kind == InputPhoto {
		prefix = "p_"
	}
	h := fnv.New32a()
	h.Write([]byte(ref))
	if probe > 0 {
		fmt.Fprintf(h, "#%d", probe)
	}
	return fmt.Sprintf("%s%d", prefix, h.Sum32()%100000)
}
