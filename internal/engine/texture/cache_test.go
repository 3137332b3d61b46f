package texture

import "testing"

func TestCacheLookupExactMatch(t *testing.T) {
	c := NewCache()
	c.Add(Entry{Source: "textures/brick.png", Handle: 3, Kind: Diffuse})

	if e, ok := c.Lookup("textures/brick.png"); !ok || e.Handle != 3 {
		t.Fatalf("Lookup = %+v, %v", e, ok)
	}

	// Identifiers are compared verbatim.
	for _, id := range []string{"textures\\brick.png", "./textures/brick.png", "TEXTURES/brick.png"} {
		if _, ok := c.Lookup(id); ok {
			t.Errorf("Lookup(%q) matched", id)
		}
	}
}

func TestCacheRelease(t *testing.T) {
	c := NewCache()
	c.Add(Entry{Source: "a.png", Handle: 1})
	c.Add(Entry{Source: "b.png", Handle: 2})

	entries := c.Entries()
	entries[0].Handle = 99
	if e, _ := c.Lookup("a.png"); e.Handle != 1 {
		t.Fatal("Entries must return a copy")
	}

	released := map[uint32]int{}
	c.Release(func(h uint32) { released[h]++ })

	if len(released) != 2 || released[1] != 1 || released[2] != 1 {
		t.Errorf("released = %v", released)
	}
	if c.Len() != 0 {
		t.Errorf("Len after Release = %d", c.Len())
	}

	c.Release(func(h uint32) { t.Errorf("handle %d released twice", h) })
}
