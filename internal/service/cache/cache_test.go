package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) *CacheService {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	port, err := strconv.Atoi(mr.Port())
	if err != nil {
		t.Fatalf("miniredis port: %v", err)
	}
	svc, err := NewCacheService(CacheConfig{Host: mr.Host(), Port: port}, zap.NewNop())
	if err != nil {
		t.Fatalf("NewCacheService: %v", err)
	}
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

type payload struct {
	FEN     string   `json:"fen"`
	History []string `json:"history"`
}

func TestSetGetRoundTrip(t *testing.T) {
	svc := newTestCache(t)
	ctx := context.Background()

	in := payload{FEN: "8/8/8/8/8/8/8/8 w - - 0 1", History: []string{"a", "b"}}
	if err := svc.Set(ctx, "chess:sessions:test", in, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	if err := svc.Get(ctx, "chess:sessions:test", &out); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if out.FEN != in.FEN || len(out.History) != 2 {
		t.Fatalf("round trip mismatch: %+v", out)
	}
}

func TestGetMissingKeyLeavesDestZero(t *testing.T) {
	svc := newTestCache(t)

	var out payload
	if err := svc.Get(context.Background(), "chess:sessions:absent", &out); err != nil {
		t.Fatalf("Get on missing key: %v", err)
	}
	if out.FEN != "" || out.History != nil {
		t.Fatalf("dest was touched on miss: %+v", out)
	}
}

func TestDel(t *testing.T) {
	svc := newTestCache(t)
	ctx := context.Background()

	if err := svc.Set(ctx, "k", payload{FEN: "x"}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := svc.Del(ctx, "k"); err != nil {
		t.Fatalf("Del: %v", err)
	}
	var out payload
	if err := svc.Get(ctx, "k", &out); err != nil {
		t.Fatalf("Get after Del: %v", err)
	}
	if out.FEN != "" {
		t.Fatalf("value survived Del: %+v", out)
	}
}
