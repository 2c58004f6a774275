package collection

import "testing"

func TestOrderedAddUpdatesScore(t *testing.T) {
	o := NewOrdered()

	if result := o.Add("alice", 10); result != Added {
		t.Fatalf("expected Added, got %v", result)
	}
	if result := o.Add("alice", 20); result != Updated {
		t.Fatalf("expected Updated, got %v", result)
	}

	score, ok := o.Score("alice")
	if !ok || score != 20 {
		t.Fatalf("expected score 20, got (%v, %v)", score, ok)
	}
}

func TestOrderedRemove(t *testing.T) {
	o := NewOrdered()
	o.Add("alice", 1)

	if !o.Remove("alice") {
		t.Fatal("expected remove to report present")
	}
	if o.Remove("alice") {
		t.Fatal("expected second remove to report absent")
	}
	if o.Card() != 0 {
		t.Fatalf("expected cardinality 0, got %d", o.Card())
	}
}

func TestOrderedRank(t *testing.T) {
	o := NewOrdered()
	o.Add("alice", 10)
	o.Add("bob", 5)

	if rank := o.Rank("bob"); rank != 0 {
		t.Fatalf("expected bob at rank 0, got %d", rank)
	}
	if rank := o.Rank("alice"); rank != 1 {
		t.Fatalf("expected alice at rank 1, got %d", rank)
	}
}

func TestOrderedRangeByScore(t *testing.T) {
	o := NewOrdered()
	o.Add("alice", 10)
	o.Add("bob", 20)
	o.Add("carol", 15)

	got := o.RangeByScore(12, 20, 0)
	if len(got) != 2 || got[0].Member != "carol" || got[1].Member != "bob" {
		t.Fatalf("unexpected range result: %+v", got)
	}
}
