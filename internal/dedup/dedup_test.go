package dedup

import (
	"fmt"
	"sync"
	"testing"
)

func TestAddReportsNewOnce(t *testing.T) {
	c := NewCache(0)

	if !c.Add("fp1") {
		t.Error("first Add should report new")
	}
	if c.Add("fp1") {
		t.Error("second Add of same fingerprint should report seen")
	}
	if !c.Add("fp2") {
		t.Error("distinct fingerprint should report new")
	}
	if c.Len() != 2 {
		t.Errorf("Len = %d, want 2", c.Len())
	}
}

func TestUnlimitedCacheNeverEvicts(t *testing.T) {
	c := NewCache(0)
	for i := 0; i < 1000; i++ {
		c.Add(fmt.Sprintf("fp%d", i))
	}
	if c.Len() != 1000 {
		t.Errorf("Len = %d, want 1000", c.Len())
	}
	if !c.Contains("fp0") {
		t.Error("oldest fingerprint should survive with limit 0")
	}
}

func TestLimitedCacheEvictsOldest(t *testing.T) {
	c := NewCache(3)
	for _, fp := range []string{"a", "b", "c", "d"} {
		c.Add(fp)
	}

	if c.Contains("a") {
		t.Error("oldest fingerprint should have been evicted")
	}
	for _, fp := range []string{"b", "c", "d"} {
		if !c.Contains(fp) {
			t.Errorf("fingerprint %q should still be held", fp)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len = %d, want 3", c.Len())
	}

	// An evicted fingerprint counts as new again.
	if !c.Add("a") {
		t.Error("re-adding evicted fingerprint should report new")
	}
}

func TestConcurrentAdd(t *testing.T) {
	c := NewCache(0)
	var wg sync.WaitGroup
	var mu sync.Mutex
	newCount := 0

	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if c.Add(fmt.Sprintf("fp%d", j)) {
					mu.Lock()
					newCount++
					mu.Unlock()
				}
			}
		}()
	}
	wg.Wait()

	if newCount != 100 {
		t.Errorf("each fingerprint should be new exactly once, got %d", newCount)
	}
}
