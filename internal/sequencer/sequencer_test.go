package sequencer

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/scribe/internal/models"
)

type fakeSeeder struct {
	max   map[string]int
	err   error
	calls int
	mu    sync.Mutex
}

func (f *fakeSeeder) MaxOrdinal(ctx context.Context, sessionID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	if m, ok := f.max[sessionID]; ok {
		return m, nil
	}
	return -1, nil
}

func TestNextOrdinalSequential(t *testing.T) {
	ctx := context.Background()
	seq := New(nil)

	for want := 0; want < 5; want++ {
		got, err := seq.NextOrdinal(ctx, "s1")
		if err != nil {
			t.Fatalf("NextOrdinal: %v", err)
		}
		if got != want {
			t.Errorf("NextOrdinal() = %d, want %d", got, want)
		}
	}

	got, _ := seq.NextOrdinal(ctx, "s2")
	if got != 0 {
		t.Errorf("NextOrdinal(s2) = %d, want 0", got)
	}
}

func TestNextOrdinalConcurrent(t *testing.T) {
	ctx := context.Background()
	seq := New(nil)

	const n = 200
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		got []int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ord, err := seq.NextOrdinal(ctx, "s1")
			if err != nil {
				t.Errorf("NextOrdinal: %v", err)
				return
			}
			mu.Lock()
			got = append(got, ord)
			mu.Unlock()
		}()
	}
	wg.Wait()

	sort.Ints(got)
	for i, ord := range got {
		if ord != i {
			t.Fatalf("ordinals not contiguous: position %d = %d", i, ord)
		}
	}
	if len(got) != n {
		t.Errorf("len = %d, want %d", len(got), n)
	}
}

func TestSeedFromStore(t *testing.T) {
	ctx := context.Background()
	seeder := &fakeSeeder{max: map[string]int{"s1": 4}}
	seq := New(seeder)

	for want := 5; want < 8; want++ {
		got, err := seq.NextOrdinal(ctx, "s1")
		if err != nil {
			t.Fatalf("NextOrdinal: %v", err)
		}
		if got != want {
			t.Errorf("NextOrdinal() = %d, want %d", got, want)
		}
	}
	if seeder.calls != 1 {
		t.Errorf("seeder calls = %d, want 1", seeder.calls)
	}
}

func TestSeedFailure(t *testing.T) {
	seq := New(&fakeSeeder{err: errors.New("db down")})

	_, err := seq.NextOrdinal(context.Background(), "s1")
	if !errors.Is(err, models.ErrSequencer) {
		t.Errorf("NextOrdinal() error = %v, want sequencer error", err)
	}
}

func TestAppendFailedWriteLeavesNoGap(t *testing.T) {
	ctx := context.Background()
	seq := New(nil)
	writeErr := errors.New("insert failed")

	if _, err := seq.Append(ctx, "s1", func(int) error { return nil }); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if _, err := seq.Append(ctx, "s1", func(int) error { return writeErr }); !errors.Is(err, writeErr) {
		t.Fatalf("Append() error = %v, want %v", err, writeErr)
	}

	var written int
	got, err := seq.Append(ctx, "s1", func(ord int) error {
		written = ord
		return nil
	})
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got != 1 || written != 1 {
		t.Errorf("Append() = %d (write saw %d), want 1", got, written)
	}
}

func TestAppendSerializesWritesInOrder(t *testing.T) {
	ctx := context.Background()
	seq := New(nil)

	const n = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		written []int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq.Append(ctx, "s1", func(ord int) error {
				mu.Lock()
				written = append(written, ord)
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	for i, ord := range written {
		if ord != i {
			t.Fatalf("write %d saw ordinal %d; writes must land in ordinal order", i, ord)
		}
	}
}

func TestSessionsDoNotBlockEachOther(t *testing.T) {
	ctx := context.Background()
	seq := New(nil)

	release := make(chan struct{})
	started := make(chan struct{})
	go seq.Append(ctx, "slow", func(int) error {
		close(started)
		<-release
		return nil
	})
	<-started
	defer close(release)

	done := make(chan struct{})
	go func() {
		seq.NextOrdinal(ctx, "fast")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("NextOrdinal(fast) blocked behind another session")
	}
}

func TestForgetReseedsFromStore(t *testing.T) {
	ctx := context.Background()
	seeder := &fakeSeeder{max: map[string]int{}}
	seq := New(seeder).(*implSequencer)

	seq.NextOrdinal(ctx, "s1")
	seq.NextOrdinal(ctx, "s1")
	seq.Forget("s1")
	if n := seq.tracked(); n != 0 {
		t.Fatalf("tracked() = %d, want 0", n)
	}

	// the store now holds ordinals 0 and 1
	seeder.mu.Lock()
	seeder.max["s1"] = 1
	seeder.mu.Unlock()

	got, err := seq.NextOrdinal(ctx, "s1")
	if err != nil {
		t.Fatalf("NextOrdinal: %v", err)
	}
	if got != 2 {
		t.Errorf("NextOrdinal() = %d, want 2", got)
	}
	if seeder.calls != 2 {
		t.Errorf("seeder calls = %d, want 2", seeder.calls)
	}
}

func TestForgetKeepsCounterInUse(t *testing.T) {
	ctx := context.Background()
	seq := New(nil).(*implSequencer)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		seq.Append(ctx, "s1", func(int) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	seq.Forget("s1")
	if n := seq.tracked(); n != 1 {
		t.Errorf("tracked() = %d while Append runs, want 1", n)
	}
	close(release)
	<-done

	got, _ := seq.NextOrdinal(ctx, "s1")
	if got != 1 {
		t.Errorf("NextOrdinal() = %d, want 1", got)
	}

	seq.Forget("s1")
	if n := seq.tracked(); n != 0 {
		t.Errorf("tracked() = %d after Forget, want 0", n)
	}
}

func TestForgetUnknownSession(t *testing.T) {
	seq := New(nil).(*implSequencer)
	seq.Forget("ghost")
	if n := seq.tracked(); n != 0 {
		t.Errorf("tracked() = %d, want 0", n)
	}
}
