package pipeline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/flordomaracuja/lead-capture/internal/leads"
	"github.com/flordomaracuja/lead-capture/internal/localstore"
)

func queuedEntry(t *testing.T, tp testPipeline, email string) {
	t.Helper()
	payload := &leads.NewLead{Name: "Ana Souza", Email: email, Phone: "11988887777"}
	if !tp.enqueueOffline(context.Background(), payload) {
		t.Fatalf("enqueue %s failed", email)
	}
}

func TestReplayOfflineFIFO(t *testing.T) {
	repo := &scriptedRepo{}
	tp := newTestPipeline(t, repo)
	ctx := context.Background()

	queuedEntry(t, tp, "first@example.com")
	queuedEntry(t, tp, "second@example.com")
	queuedEntry(t, tp, "third@example.com")

	tp.ReplayOffline(ctx)

	if len(repo.inserted) != 3 {
		t.Fatalf("expected 3 deliveries, got %d", len(repo.inserted))
	}
	order := []string{repo.inserted[0].Email, repo.inserted[1].Email, repo.inserted[2].Email}
	want := []string{"first@example.com", "second@example.com", "third@example.com"}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("delivery order[%d] = %s, want %s", i, order[i], want[i])
		}
	}
	if depth := tp.QueueDepth(ctx); depth != 0 {
		t.Errorf("expected drained queue, got depth %d", depth)
	}
}

func TestReplayOfflineDropsDuplicatesKeepsFailures(t *testing.T) {
	// First entry delivers, second is a known duplicate, third hits a
	// transient failure and must survive for the next pass.
	repo := &scriptedRepo{
		insertErrs: []error{nil, leads.ErrDuplicateEmail, errors.New("connection reset")},
	}
	tp := newTestPipeline(t, repo)
	ctx := context.Background()

	queuedEntry(t, tp, "delivered@example.com")
	queuedEntry(t, tp, "duplicate@example.com")
	queuedEntry(t, tp, "transient@example.com")

	tp.ReplayOffline(ctx)

	if repo.insertCalls != 3 {
		t.Fatalf("expected one attempt per entry, got %d", repo.insertCalls)
	}
	remaining := tp.loadQueue(ctx)
	if len(remaining) != 1 {
		t.Fatalf("expected 1 kept entry, got %d", len(remaining))
	}
	if remaining[0].Payload.Email != "transient@example.com" {
		t.Errorf("kept entry = %s, want transient@example.com", remaining[0].Payload.Email)
	}

	// Next pass with a healthy store drains the remainder.
	repo.insertErrs = nil
	tp.ReplayOffline(ctx)
	if depth := tp.QueueDepth(ctx); depth != 0 {
		t.Errorf("expected drained queue after second pass, got depth %d", depth)
	}
}

func TestReplayOfflineEmptyQueueNoStoreContact(t *testing.T) {
	repo := &scriptedRepo{}
	tp := newTestPipeline(t, repo)

	tp.ReplayOffline(context.Background())

	if repo.insertCalls != 0 {
		t.Errorf("empty queue must not touch the store, got %d inserts", repo.insertCalls)
	}
}

// blockingRepo parks the first Insert until released, letting a test overlap
// a replay pass with other pipeline calls.
type blockingRepo struct {
	scriptedRepo
	started chan struct{}
	release chan struct{}
}

func (r *blockingRepo) Insert(ctx context.Context, payload *leads.NewLead) (*leads.Lead, error) {
	select {
	case <-r.started:
	default:
		close(r.started)
		<-r.release
	}
	return r.scriptedRepo.Insert(ctx, payload)
}

func TestReplayOfflineGuardsAgainstConcurrentSubmit(t *testing.T) {
	repo := &blockingRepo{started: make(chan struct{}), release: make(chan struct{})}
	local := localstore.NewMemoryStore()
	p := New(repo, local, &recordingNotifier{}, nil).
		WithSleep(func(ctx context.Context, d time.Duration) {})
	ctx := context.Background()

	payload := &leads.NewLead{Name: "Bia Lima", Email: "bia@example.com", Phone: "11977776666"}
	if !p.enqueueOffline(ctx, payload) {
		t.Fatal("enqueue failed")
	}

	done := make(chan struct{})
	go func() {
		p.ReplayOffline(ctx)
		close(done)
	}()
	<-repo.started

	// Replay is mid-pass holding the guard. A submission arriving now must
	// be turned away busy; if it ran, anything it queued would be erased
	// when the replay writes back its snapshot of the queue.
	result := p.Submit(ctx, validForm(), nil)
	if result.Outcome != OutcomeBusy {
		t.Fatalf("expected busy result during replay, got %s", result.Outcome)
	}

	close(repo.release)
	<-done

	if depth := p.QueueDepth(ctx); depth != 0 {
		t.Errorf("expected drained queue, got depth %d", depth)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Email != "bia@example.com" {
		t.Errorf("unexpected deliveries: %+v", repo.inserted)
	}

	// Guard released: the turned-away visitor gets through on retry.
	retry := p.Submit(ctx, validForm(), nil)
	if retry.Outcome != OutcomeSuccess {
		t.Errorf("expected success after replay, got %s", retry.Outcome)
	}
}

func TestReplayOfflineSkippedWhileSubmissionInFlight(t *testing.T) {
	repo := &scriptedRepo{}
	tp := newTestPipeline(t, repo)
	ctx := context.Background()

	queuedEntry(t, tp, "waiting@example.com")

	tp.mu.Lock()
	tp.inFlight = true
	tp.mu.Unlock()

	tp.ReplayOffline(ctx)

	if repo.insertCalls != 0 {
		t.Errorf("skipped pass must not touch the store, got %d inserts", repo.insertCalls)
	}
	if depth := tp.QueueDepth(ctx); depth != 1 {
		t.Errorf("queue depth = %d, want 1", depth)
	}
}

func TestEnqueueOfflineRefusesWhenFull(t *testing.T) {
	repo := &scriptedRepo{}
	tp := newTestPipeline(t, repo)
	tp.WithQueueCap(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		queuedEntry(t, tp, fmt.Sprintf("user%d@example.com", i))
	}
	if tp.enqueueOffline(ctx, &leads.NewLead{Email: "overflow@example.com"}) {
		t.Error("enqueue beyond cap must be refused")
	}
	if depth := tp.QueueDepth(ctx); depth != 3 {
		t.Errorf("queue depth = %d, want 3", depth)
	}
}

func TestLoadQueueDiscardsCorruptData(t *testing.T) {
	repo := &scriptedRepo{}
	tp := newTestPipeline(t, repo)
	ctx := context.Background()

	if err := tp.local.Set(ctx, localstore.KeyOfflineQueue, "{not json"); err != nil {
		t.Fatal(err)
	}
	if entries := tp.loadQueue(ctx); entries != nil {
		t.Errorf("corrupt queue must load as empty, got %v", entries)
	}
	// The poisoned key is gone, so appending works again.
	queuedEntry(t, tp, "fresh@example.com")
	if depth := tp.QueueDepth(ctx); depth != 1 {
		t.Errorf("queue depth = %d, want 1", depth)
	}
}
