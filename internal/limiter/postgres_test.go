package limiter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct{ scan func(dest ...any) error }

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

type fakeQuerier struct {
	qrErr       error
	blockedTill time.Time
	failsRet    int

	lastExecSQL  string
	lastExecArgs []any
	execErr      error
}

func (f *fakeQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.lastExecSQL = sql
	f.lastExecArgs = args
	return pgconn.CommandTag{}, f.execErr
}

func (f *fakeQuerier) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	switch {
	case strings.Contains(sql, "SELECT blocked_until"):
		return fakeRow{scan: func(dest ...any) error {
			if f.qrErr != nil {
				return f.qrErr
			}
			*(dest[0].(*time.Time)) = f.blockedTill
			return nil
		}}
	case strings.Contains(sql, "RETURNING fail_count"):
		return fakeRow{scan: func(dest ...any) error {
			if f.qrErr != nil {
				return f.qrErr
			}
			*(dest[0].(*int)) = f.failsRet
			return nil
		}}
	default:
		return fakeRow{scan: func(...any) error { return errors.New("unexpected query") }}
	}
}

func newPG(q Querier, p Policy, now time.Time) *PG {
	l := NewPG(q, p)
	l.now = func() time.Time { return now }
	return l
}

func TestAllow_NoRow_Allows(t *testing.T) {
	l := NewPG(&fakeQuerier{qrErr: pgx.ErrNoRows}, DefaultPolicy)

	ok, dur, err := l.Allow(context.Background(), "voter:vtr-1", []byte("h"))
	if err != nil || !ok || dur != 0 {
		t.Fatalf("Allow no-row: ok=%v dur=%v err=%v", ok, dur, err)
	}
}

func TestAllow_BlockedUntilFuture(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	l := newPG(&fakeQuerier{blockedTill: now.Add(10 * time.Minute)}, DefaultPolicy, now)

	ok, dur, err := l.Allow(context.Background(), "admin:root@example.org", []byte("h"))
	if err != nil || ok || dur != 10*time.Minute {
		t.Fatalf("Allow blocked: ok=%v dur=%v err=%v", ok, dur, err)
	}
}

func TestAllow_PastOrEpoch_Allows(t *testing.T) {
	now := time.Now()
	for _, till := range []time.Time{now.Add(-time.Minute), time.Unix(0, 0)} {
		l := newPG(&fakeQuerier{blockedTill: till}, DefaultPolicy, now)
		ok, dur, err := l.Allow(context.Background(), "k", []byte("h"))
		if err != nil || !ok || dur != 0 {
			t.Fatalf("Allow past %v: ok=%v dur=%v err=%v", till, ok, dur, err)
		}
	}
}

func TestAllow_DBError_Propagates(t *testing.T) {
	l := NewPG(&fakeQuerier{qrErr: errors.New("db boom")}, DefaultPolicy)

	ok, _, err := l.Allow(context.Background(), "k", []byte("h"))
	if err == nil || ok {
		t.Fatalf("want error propagate, got ok=%v err=%v", ok, err)
	}
}

func TestSuccess(t *testing.T) {
	fq := &fakeQuerier{}
	l := NewPG(fq, DefaultPolicy)

	if err := l.Success(context.Background(), "k", []byte("h")); err != nil {
		t.Fatalf("success err: %v", err)
	}
	if !strings.Contains(fq.lastExecSQL, "INSERT INTO login_attempts") {
		t.Fatalf("unexpected exec: %s", fq.lastExecSQL)
	}

	fq.execErr = errors.New("exec fail")
	if err := l.Success(context.Background(), "k", []byte("h")); err == nil {
		t.Fatalf("want exec error")
	}
}

func TestFailure_BelowThreshold_NoBlock(t *testing.T) {
	fq := &fakeQuerier{failsRet: 2}
	l := NewPG(fq, Policy{Window: 5 * time.Minute, MaxFails: 5, BlockFor: 15 * time.Minute})

	blocked, dur, err := l.Failure(context.Background(), "k", []byte("h"))
	if err != nil || blocked || dur != 0 {
		t.Fatalf("Failure no block: blocked=%v dur=%v err=%v", blocked, dur, err)
	}
	if fq.lastExecSQL != "" {
		t.Fatalf("no block update expected, got %s", fq.lastExecSQL)
	}
}

func TestFailure_BlocksAtThreshold(t *testing.T) {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	fq := &fakeQuerier{failsRet: 3}
	l := newPG(fq, Policy{Window: 5 * time.Minute, MaxFails: 3, BlockFor: 10 * time.Minute}, now)

	blocked, dur, err := l.Failure(context.Background(), "k", []byte("h"))
	if err != nil || !blocked || dur != 10*time.Minute {
		t.Fatalf("Failure block: blocked=%v dur=%v err=%v", blocked, dur, err)
	}
	if !strings.Contains(fq.lastExecSQL, "UPDATE login_attempts SET blocked_until") {
		t.Fatalf("must update blocked_until, exec=%s", fq.lastExecSQL)
	}
	if got := fq.lastExecArgs[2].(time.Time); !got.Equal(now.Add(10 * time.Minute)) {
		t.Fatalf("blocked_until=%v", got)
	}
}

func TestFailure_DBErrorOnReturning(t *testing.T) {
	l := NewPG(&fakeQuerier{qrErr: errors.New("query error")}, DefaultPolicy)

	if _, _, err := l.Failure(context.Background(), "k", []byte("h")); err == nil {
		t.Fatalf("want error from returning fail_count")
	}
}

func TestNewPG_ZeroPolicyFallsBackToDefault(t *testing.T) {
	l := NewPG(&fakeQuerier{}, Policy{})
	if l.policy != DefaultPolicy {
		t.Fatalf("policy=%+v", l.policy)
	}
}

func TestKey_And_HashIP(t *testing.T) {
	if Key("voter", " VTR-AB ") != "voter:vtr-ab" {
		t.Fatalf("key=%q", Key("voter", " VTR-AB "))
	}
	if Key("voter", "x") == Key("candidate", "x") {
		t.Fatalf("roles must not share keys")
	}
	a := HashIP("1.2.3.4")
	b := HashIP("1.2.3.4")
	c := HashIP("5.6.7.8")
	if string(a) != string(b) || string(a) == string(c) || len(a) != 32 {
		t.Fatalf("hash mismatch/len: %d", len(a))
	}
}

func TestNop(t *testing.T) {
	var l Limiter = Nop{}
	ok, _, err := l.Allow(context.Background(), "k", nil)
	if !ok || err != nil {
		t.Fatalf("nop allow: %v %v", ok, err)
	}
	blocked, _, _ := l.Failure(context.Background(), "k", nil)
	if blocked {
		t.Fatalf("nop never blocks")
	}
}
