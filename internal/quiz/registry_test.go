// ABOUTME: Tests for the session registry
// ABOUTME: Verifies creation, lookup, deletion, and expiry
package quiz

import (
	"testing"
	"time"
)

func TestRegistry_CreateGetDelete(t *testing.T) {
	r := NewRegistry(Options{Generator: &fakeGenerator{}}, 0)

	s := r.Create()
	got, ok := r.Get(s.ID())
	if !ok || got != s {
		t.Fatal("Get() should return the created session")
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}

	r.Delete(s.ID())
	if _, ok := r.Get(s.ID()); ok {
		t.Error("Get() after Delete() should miss")
	}
}

func TestRegistry_Expiry(t *testing.T) {
	r := NewRegistry(Options{}, 20*time.Millisecond)
	s := r.Create()

	time.Sleep(50 * time.Millisecond)
	if _, ok := r.Get(s.ID()); ok {
		t.Error("expired session should not be returned")
	}
}

func TestRegistry_DistinctSessions(t *testing.T) {
	r := NewRegistry(Options{}, time.Minute)
	a, b := r.Create(), r.Create()
	if a.ID() == b.ID() {
		t.Error("sessions should get distinct ids")
	}
}
