package ttl

import "testing"

func TestIsExpired(t *testing.T) {
	m := New(0, 0, 0)
	m.Set("a", 1000)

	if m.IsExpired("a", 999) {
		t.Fatal("expected not yet expired")
	}
	if !m.IsExpired("a", 1000) {
		t.Fatal("expected expired at deadline")
	}
	if m.IsExpired("absent", 5000) {
		t.Fatal("expected a key with no TTL to never report expired")
	}
}

func TestDeleteClearsDeadline(t *testing.T) {
	m := New(0, 0, 0)
	m.Set("a", 1000)
	m.Delete("a")

	if m.IsExpired("a", 5000) {
		t.Fatal("expected deleted key to report not expired")
	}
}

func TestSampleAndPurge(t *testing.T) {
	m := New(0, 0, 0)
	m.Set("expired", 100)
	m.Set("alive", 100000)

	var purged []string
	expired := m.SampleAndPurge(10, 200, func(key string) { purged = append(purged, key) })
	if expired != 1 {
		t.Fatalf("expected 1 expired key staged, got %d", expired)
	}
	// Staged keys are flushed once the pending buffer crosses its
	// threshold, not necessarily within this call — flush explicitly.
	m.FlushPendingDeletes(func(key string) { purged = append(purged, key) })
	if len(purged) != 1 || purged[0] != "expired" {
		t.Fatalf("expected [expired] purged, got %v", purged)
	}
}

func TestDeadline(t *testing.T) {
	m := New(0, 0, 0)
	if _, ok := m.Deadline("nope"); ok {
		t.Fatal("expected no deadline for unset key")
	}
	m.Set("a", 42)
	deadline, ok := m.Deadline("a")
	if !ok || deadline != 42 {
		t.Fatalf("expected deadline 42, got (%v, %v)", deadline, ok)
	}
}
