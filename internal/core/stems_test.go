// ABOUTME: Tests for the bounded per-topic recent-stems memory
// ABOUTME: Verifies FIFO eviction and topic isolation
package core

import (
	"fmt"
	"testing"
)

func TestRecentStems_EvictsOldest(t *testing.T) {
	stems := NewRecentStems(15)

	for i := 1; i <= 16; i++ {
		stems.Add("loops", fmt.Sprintf("question %d", i))
	}

	list := stems.List("loops")
	if len(list) != 15 {
		t.Fatalf("len = %d, want 15", len(list))
	}
	if stems.Contains("loops", "question 1") {
		t.Error("oldest stem should have been evicted")
	}
	if list[0] != "question 2" || list[14] != "question 16" {
		t.Errorf("unexpected order: first=%q last=%q", list[0], list[14])
	}
}

func TestRecentStems_TopicsAreIndependent(t *testing.T) {
	stems := NewRecentStems(2)
	stems.Add("a", "q1")
	stems.Add("b", "q2")
	stems.Add("a", "  ")

	if len(stems.List("a")) != 1 || len(stems.List("b")) != 1 {
		t.Errorf("topics leaked: a=%v b=%v", stems.List("a"), stems.List("b"))
	}

	list := stems.List("a")
	list[0] = "mutated"
	if stems.List("a")[0] != "q1" {
		t.Error("List should return a copy")
	}

	stems.Reset()
	if len(stems.List("a")) != 0 {
		t.Error("Reset should clear every topic")
	}
}
