// ABOUTME: RecentStems remembers the latest question texts per topic
// ABOUTME: Bounded FIFO fed into prompts so the model avoids repeating itself
package core

import (
	"slices"
	"strings"
	"sync"
)

const DefaultStemMemory = 15

// RecentStems is safe for concurrent use
type RecentStems struct {
	capacity int

	mu      sync.Mutex
	byTopic map[string][]string
}

func NewRecentStems(capacity int) *RecentStems {
	if capacity <= 0 {
		capacity = DefaultStemMemory
	}
	return &RecentStems{capacity: capacity, byTopic: make(map[string][]string)}
}

// Add appends stem for topic, evicting the oldest entry at capacity
func (r *RecentStems) Add(topic, stem string) {
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	list := append(r.byTopic[topic], stem)
	if over := len(list) - r.capacity; over > 0 {
		list = slices.Clone(list[over:])
	}
	r.byTopic[topic] = list
}

// List returns a copy of the stems for topic, oldest first
func (r *RecentStems) List(topic string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.byTopic[topic])
}

func (r *RecentStems) Contains(topic, stem string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Contains(r.byTopic[topic], strings.TrimSpace(stem))
}

// Reset forgets every topic
func (r *RecentStems) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byTopic = make(map[string][]string)
}
