package availability

import (
	"context"
	"errors"
	"testing"
)

func TestFetch_NewerRequestSupersedesOlder(t *testing.T) {
	latest, err := NewLatest(16)
	if err != nil {
		t.Fatalf("NewLatest error: %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	type result struct {
		v   string
		err error
	}
	oldDone := make(chan result, 1)

	go func() {
		v, err := Fetch(context.Background(), latest, "citizen-1:slots", func(ctx context.Context) (string, error) {
			close(started)
			<-release
			return "march-10", nil
		})
		oldDone <- result{v, err}
	}()

	<-started
	v, err := Fetch(context.Background(), latest, "citizen-1:slots", func(ctx context.Context) (string, error) {
		return "march-11", nil
	})
	if err != nil || v != "march-11" {
		t.Fatalf("newer fetch = %q, %v", v, err)
	}

	close(release)
	old := <-oldDone
	if !errors.Is(old.err, ErrSuperseded) {
		t.Fatalf("older fetch err = %v, want ErrSuperseded", old.err)
	}
	if old.v != "" {
		t.Fatalf("older fetch leaked value %q", old.v)
	}
}

func TestFetch_OlderContextCancelled(t *testing.T) {
	latest, err := NewLatest(16)
	if err != nil {
		t.Fatalf("NewLatest error: %v", err)
	}

	started := make(chan struct{})
	oldErr := make(chan error, 1)
	go func() {
		_, err := Fetch(context.Background(), latest, "k", func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		})
		oldErr <- err
	}()

	<-started
	if _, err := Fetch(context.Background(), latest, "k", func(ctx context.Context) (int, error) { return 1, nil }); err != nil {
		t.Fatalf("newer fetch error: %v", err)
	}
	if err := <-oldErr; !errors.Is(err, ErrSuperseded) {
		t.Fatalf("older fetch err = %v, want ErrSuperseded", err)
	}
}

func TestFetch_IndependentKeys(t *testing.T) {
	latest, err := NewLatest(16)
	if err != nil {
		t.Fatalf("NewLatest error: %v", err)
	}

	for _, key := range []string{"a", "b", "a"} {
		v, err := Fetch(context.Background(), latest, key, func(ctx context.Context) (string, error) {
			return key, nil
		})
		if err != nil || v != key {
			t.Fatalf("Fetch(%q) = %q, %v", key, v, err)
		}
	}
}

func TestFetch_PropagatesError(t *testing.T) {
	latest, err := NewLatest(4)
	if err != nil {
		t.Fatalf("NewLatest error: %v", err)
	}
	boom := errors.New("boom")
	if _, err := Fetch(context.Background(), latest, "k", func(ctx context.Context) (int, error) { return 0, boom }); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
}

func TestFetch_CallerCancellationIsNotSuperseded(t *testing.T) {
	latest, err := NewLatest(4)
	if err != nil {
		t.Fatalf("NewLatest error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Fetch(ctx, latest, "k", func(ctx context.Context) (int, error) { return 0, ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestFetch_EmptyKeyIsNotTracked(t *testing.T) {
	latest, err := NewLatest(16)
	if err != nil {
		t.Fatalf("NewLatest error: %v", err)
	}

	started := make(chan struct{})
	release := make(chan struct{})
	firstDone := make(chan error, 1)
	go func() {
		_, err := Fetch(context.Background(), latest, "", func(ctx context.Context) (int, error) {
			close(started)
			<-release
			return 1, ctx.Err()
		})
		firstDone <- err
	}()

	<-started
	if _, err := Fetch(context.Background(), latest, "", func(ctx context.Context) (int, error) { return 2, nil }); err != nil {
		t.Fatalf("second fetch error: %v", err)
	}
	close(release)
	if err := <-firstDone; err != nil {
		t.Fatalf("first fetch error: %v, want nil", err)
	}
}
