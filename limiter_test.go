package site

import (
	"testing"
	"time"
)

func TestLoginLimiterAllows(t *testing.T) {
	l := NewLoginLimiter(3, time.Minute)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("1.2.3.4") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("1.2.3.4") {
		t.Error("attempt over the limit should be denied")
	}
}

func TestLoginLimiterPerIP(t *testing.T) {
	l := NewLoginLimiter(1, time.Minute)
	defer l.Stop()

	if !l.Allow("1.1.1.1") {
		t.Error("first IP should be allowed")
	}
	if !l.Allow("2.2.2.2") {
		t.Error("second IP should have its own allowance")
	}
	if l.Allow("1.1.1.1") {
		t.Error("first IP should now be denied")
	}
}

func TestLoginLimiterWindowExpiry(t *testing.T) {
	l := NewLoginLimiter(1, 20*time.Millisecond)
	defer l.Stop()

	if !l.Allow("1.2.3.4") {
		t.Fatal("first attempt should be allowed")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("second attempt inside window should be denied")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("1.2.3.4") {
		t.Error("attempt after window should be allowed again")
	}
}

func TestPruneBefore(t *testing.T) {
	now := time.Now()
	hits := []time.Time{now.Add(-3 * time.Minute), now.Add(-30 * time.Second), now}
	kept := pruneBefore(hits, now.Add(-time.Minute))
	if len(kept) != 2 {
		t.Errorf("kept %d hits, want 2", len(kept))
	}
}
