package sheet

import (
	"sync"
	"testing"

	"github.com/louisbranch/rollkeeper/internal/sheet/storage"
)

func TestOwnerLocksSerializePerOwner(t *testing.T) {
	var locks ownerLocks
	a := storage.Owner{CommunityID: "g", UserID: "a"}
	b := storage.Owner{CommunityID: "g", UserID: "b"}

	releaseA := locks.lock(a)
	releaseB := locks.lock(b)
	if locks.size() != 2 {
		t.Fatalf("size = %d, want 2", locks.size())
	}
	releaseB()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer locks.lock(a)()
			counter++
		}()
	}
	releaseA()
	wg.Wait()

	if counter != 10 {
		t.Fatalf("counter = %d, want 10", counter)
	}
	if locks.size() != 0 {
		t.Fatalf("size = %d, want 0", locks.size())
	}
}
