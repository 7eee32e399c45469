package termmap

import (
	"sort"
	"testing"
)

// fakeValue is a minimal Serializable for exercising Map without pulling
// in the root blaze package (which would create an import cycle, since
// blaze.PostingNode itself depends on this package).
type fakeValue struct {
	N int
}

func (v *fakeValue) Serialize() []byte {
	return []byte{byte(v.N)}
}

func (v *fakeValue) Deserialize(buf []byte) {
	v.N = int(buf[0])
}

func newFake() *fakeValue { return &fakeValue{} }

func TestMap_InsertAndEntry(t *testing.T) {
	m, err := New[*fakeValue](10, t.TempDir(), newFake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	m.Insert("hello", &fakeValue{N: 5})

	e, ok := m.Entry("hello")
	if !ok {
		t.Fatal("Entry(hello) not found")
	}
	v, err := e.Get()
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if v.N != 5 {
		t.Errorf("v.N = %d, want 5", v.N)
	}

	if _, ok := m.Entry("missing"); ok {
		t.Error("Entry(missing) should not be found")
	}
}

func TestMap_EntryOrDefault(t *testing.T) {
	m, err := New[*fakeValue](10, t.TempDir(), newFake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	e1 := m.EntryOrDefault("term")
	_ = e1.Mutate(func(v *fakeValue) { v.N = 42 })

	e2 := m.EntryOrDefault("term")
	v, _ := e2.Get()
	if v.N != 42 {
		t.Errorf("second EntryOrDefault should return the same entry, got N = %d", v.N)
	}

	if m.Len() != 1 {
		t.Errorf("Len() = %d, want 1", m.Len())
	}
}

func TestMap_CleanCache_SpillsAndReloads(t *testing.T) {
	m, err := New[*fakeValue](1, t.TempDir(), newFake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	e1 := m.EntryOrDefault("a")
	_ = e1.Mutate(func(v *fakeValue) { v.N = 1 })
	e2 := m.EntryOrDefault("b")
	_ = e2.Mutate(func(v *fakeValue) { v.N = 2 })

	if pop := m.CachePopulation(); pop != 2 {
		t.Fatalf("CachePopulation() before clean = %d, want 2", pop)
	}

	m.CleanCache()
	if pop := m.CachePopulation(); pop > m.Capacity() {
		t.Errorf("CachePopulation() after clean = %d, want <= capacity %d", pop, m.Capacity())
	}

	// Values must still be retrievable (spilled ones reload transparently).
	for _, key := range []string{"a", "b"} {
		e, ok := m.Entry(key)
		if !ok {
			t.Fatalf("Entry(%q) missing after CleanCache", key)
		}
		if _, err := e.Get(); err != nil {
			t.Errorf("Get() for %q after spill error = %v", key, err)
		}
	}
}

func TestMap_WildcardKeys(t *testing.T) {
	m, err := New[*fakeValue](10, t.TempDir(), newFake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, k := range []string{"run", "running", "runner", "jump"} {
		m.Insert(k, &fakeValue{})
	}

	got := m.WildcardKeys("run", "")
	sort.Strings(got)
	want := []string{"run", "runner", "running"}
	if len(got) != len(want) {
		t.Fatalf("WildcardKeys(run,\"\") = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("WildcardKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestMap_NearestNeighborKeys(t *testing.T) {
	m, err := New[*fakeValue](10, t.TempDir(), newFake)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, k := range []string{"quick", "quack", "quip"} {
		m.Insert(k, &fakeValue{})
	}

	got := m.NearestNeighborKeys("quock", 1)
	sort.Strings(got)
	want := []string{"quack", "quick"}
	if len(got) != len(want) {
		t.Fatalf("NearestNeighborKeys(quock,1) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NearestNeighborKeys()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNew_RejectsRootDir(t *testing.T) {
	if _, err := New[*fakeValue](10, "/", newFake); err == nil {
		t.Error("New(\"/\") should refuse to spill into root")
	}
	if _, err := New[*fakeValue](10, "", newFake); err == nil {
		t.Error("New(\"\") should refuse an empty dir")
	}
}
