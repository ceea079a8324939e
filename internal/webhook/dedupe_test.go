package webhook

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestDeduper(t *testing.T, ttl time.Duration) (*Deduper, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewDeduper(client, ttl), mr
}

func TestFirstDeliveryClaimsOnce(t *testing.T) {
	d, _ := newTestDeduper(t, time.Hour)
	ctx := context.Background()

	if !d.FirstDelivery(ctx, "msg-1") {
		t.Fatal("first delivery of msg-1 rejected")
	}
	if d.FirstDelivery(ctx, "msg-1") {
		t.Error("duplicate delivery of msg-1 accepted")
	}
	if !d.FirstDelivery(ctx, "msg-2") {
		t.Error("unrelated message rejected")
	}
}

func TestFirstDeliveryExpires(t *testing.T) {
	d, mr := newTestDeduper(t, time.Minute)
	ctx := context.Background()

	if !d.FirstDelivery(ctx, "msg-1") {
		t.Fatal("first delivery rejected")
	}
	mr.FastForward(2 * time.Minute)
	if !d.FirstDelivery(ctx, "msg-1") {
		t.Error("redelivery after TTL expiry rejected")
	}
}

func TestFirstDeliveryFailsOpen(t *testing.T) {
	ctx := context.Background()

	var nilDeduper *Deduper
	if !nilDeduper.FirstDelivery(ctx, "msg-1") {
		t.Error("nil deduper rejected a delivery")
	}
	if !NewDeduper(nil, 0).FirstDelivery(ctx, "msg-1") {
		t.Error("deduper without client rejected a delivery")
	}

	d, mr := newTestDeduper(t, time.Hour)
	mr.Close()
	if !d.FirstDelivery(ctx, "msg-1") {
		t.Error("redis error did not fail open")
	}
	if !d.FirstDelivery(ctx, "") {
		t.Error("empty message ID did not fail open")
	}
}
