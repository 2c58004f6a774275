package collection

import "testing"

func TestCompactIntSetAddAndHas(t *testing.T) {
	c := NewCompactIntSet(4)

	if result := c.Add("5"); result != SetAdded {
		t.Fatalf("expected SetAdded, got %v", result)
	}
	if result := c.Add("5"); result != SetPresent {
		t.Fatalf("expected SetPresent, got %v", result)
	}
	if !c.Has("5") {
		t.Fatal("expected 5 to be present")
	}
}

func TestCompactIntSetUpgradeOnNonInteger(t *testing.T) {
	c := NewCompactIntSet(4)
	c.Add("1")

	if result := c.Add("not-a-number"); result != SetUpgradeRequired {
		t.Fatalf("expected SetUpgradeRequired, got %v", result)
	}
}

func TestCompactIntSetUpgradeOnCap(t *testing.T) {
	c := NewCompactIntSet(2)
	c.Add("1")
	c.Add("2")

	if result := c.Add("3"); result != SetUpgradeRequired {
		t.Fatalf("expected SetUpgradeRequired at cap, got %v", result)
	}
}

func TestCompactIntSetUpgradeToGeneralPreservesMembers(t *testing.T) {
	c := NewCompactIntSet(4)
	c.Add("3")
	c.Add("1")
	c.Add("2")

	g := c.UpgradeToGeneral()
	for _, m := range []string{"1", "2", "3"} {
		if !g.Has(m) {
			t.Fatalf("expected %s to survive upgrade", m)
		}
	}
	if g.Size() != 3 {
		t.Fatalf("expected size 3, got %d", g.Size())
	}
}

func TestGeneralSetAddDeleteHas(t *testing.T) {
	g := NewGeneralSet()

	if !g.Add("x") {
		t.Fatal("expected first add to report true")
	}
	if g.Add("x") {
		t.Fatal("expected duplicate add to report false")
	}
	if !g.Delete("x") {
		t.Fatal("expected delete to report present")
	}
	if g.Has("x") {
		t.Fatal("expected x to be gone")
	}
}
