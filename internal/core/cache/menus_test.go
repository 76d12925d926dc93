package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"cafeteria-reservations/internal/domain"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewWithClient(rdb), mr
}

func TestMenusLoadAndInvalidate(t *testing.T) {
	c, mr := newTestCache(t)
	m := NewMenus(c, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*domain.Menu, error) {
		calls++
		return &domain.Menu{ID: "m1", Date: "2025-03-07", Status: domain.StatusConfirmed}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := m.Load(ctx, "2025-03-07", load)
		if err != nil || got == nil || got.ID != "m1" {
			t.Fatalf("load %d: %v, %v", i, got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
	if !mr.Exists("menu:date:2025-03-07:v0") {
		t.Fatal("key not written")
	}

	if err := m.Invalidate(ctx, "2025-03-07"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.Load(ctx, "2025-03-07", load); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Fatalf("after invalidate loader called %d times, want 2", calls)
	}
}

// 没有菜单也缓存，读出仍为 nil
func TestMenusCachesMissing(t *testing.T) {
	c, _ := newTestCache(t)
	m := NewMenus(c, time.Minute)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) (*domain.Menu, error) { calls++; return nil, nil }
	for i := 0; i < 2; i++ {
		got, err := m.Load(ctx, "2030-01-01", load)
		if err != nil || got != nil {
			t.Fatalf("want (nil, nil), got (%v, %v)", got, err)
		}
	}
	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}

func TestMenusLoaderErrorNotCached(t *testing.T) {
	c, mr := newTestCache(t)
	m := NewMenus(c, time.Minute)
	boom := errors.New("db down")

	_, err := m.Load(context.Background(), "2025-03-07", func(context.Context) (*domain.Menu, error) { return nil, boom })
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if mr.Exists("menu:date:2025-03-07:v0") {
		t.Fatal("error result was cached")
	}
}

// Redis 不可用时直接回源
func TestGetOrLoadFallsBackWhenRedisDown(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()
	b, err := c.GetOrLoad(context.Background(), "k", time.Minute, func(context.Context) ([]byte, error) {
		return []byte("v"), nil
	})
	if err != nil || string(b) != "v" {
		t.Fatalf("got %q, %v", b, err)
	}
}

func TestPrefixAndCorruptEntry(t *testing.T) {
	c, mr := newTestCache(t)
	c.Prefix = "cafeteria:"
	m := NewMenus(c, time.Minute)
	ctx := context.Background()

	if err := mr.Set("cafeteria:menu:date:2025-03-07:v0", "{not json"); err != nil {
		t.Fatal(err)
	}
	calls := 0
	got, err := m.Load(ctx, "2025-03-07", func(context.Context) (*domain.Menu, error) {
		calls++
		return &domain.Menu{ID: "m1"}, nil
	})
	if err != nil || got == nil || got.ID != "m1" || calls != 1 {
		t.Fatalf("got %v, %v after %d loads", got, err, calls)
	}
	if mr.Exists("cafeteria:menu:date:2025-03-07:v0") {
		t.Fatal("corrupt entry kept")
	}
}

// 失效发生在回源途中：旧数据只落在旧代的 key，之后的读取重新回源
func TestMenusInvalidateDuringLoad(t *testing.T) {
	c, _ := newTestCache(t)
	m := NewMenus(c, time.Minute)
	ctx := context.Background()

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan *domain.Menu, 1)
	go func() {
		got, _ := m.Load(ctx, "2025-03-07", func(context.Context) (*domain.Menu, error) {
			close(started)
			<-release
			return &domain.Menu{ID: "old"}, nil
		})
		done <- got
	}()

	<-started
	if err := m.Invalidate(ctx, "2025-03-07"); err != nil {
		t.Fatal(err)
	}
	close(release)
	if got := <-done; got == nil || got.ID != "old" {
		t.Fatalf("in-flight load = %+v", got)
	}

	got, err := m.Load(ctx, "2025-03-07", func(context.Context) (*domain.Menu, error) {
		return &domain.Menu{ID: "new"}, nil
	})
	if err != nil || got == nil || got.ID != "new" {
		t.Fatalf("load after invalidate = %+v, %v", got, err)
	}
}
