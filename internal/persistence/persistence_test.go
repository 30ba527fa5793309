package persistence

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/valkey-io/valkey-go"

	"github.com/tem1004-eng/chulseuk-7/internal/valkeyx"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestValkey(t *testing.T) (*miniredis.Miniredis, valkey.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:       []string{mr.Addr()},
		DisableCache:      true,
		ForceSingleClient: true,
	})
	if err != nil {
		t.Fatalf("failed to create valkey client: %v", err)
	}
	t.Cleanup(client.Close)
	return mr, client
}

// exerciseBackend: 읽기 -> 쓰기 -> 덮어쓰기 흐름을 공통으로 검사한다.
func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := b.Read(ctx); err != nil || ok {
		t.Fatalf("Read() on empty backend = ok:%v err:%v", ok, err)
	}

	if err := b.Write(ctx, []byte(`[{"id":1}]`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if err := b.Write(ctx, []byte(`[]`)); err != nil {
		t.Fatalf("second Write() error = %v", err)
	}

	got, ok, err := b.Read(ctx)
	if err != nil || !ok {
		t.Fatalf("Read() = ok:%v err:%v", ok, err)
	}
	if string(got) != "[]" {
		t.Errorf("Read() = %s, want []", got)
	}
}

func TestMemory(t *testing.T) {
	exerciseBackend(t, NewMemory())
}

func TestMemory_ReturnsCopy(t *testing.T) {
	m := NewMemory()
	payload := []byte("[]")
	_ = m.Write(context.Background(), payload)
	payload[0] = 'x'

	got, _, _ := m.Read(context.Background())
	if string(got) != "[]" {
		t.Errorf("memory backend aliases caller buffer: %s", got)
	}
}

func TestValkey(t *testing.T) {
	mr, client := newTestValkey(t)
	exerciseBackend(t, NewValkey(client, "chulseuk:roster", discardLogger()))

	if got, err := mr.Get("chulseuk:roster"); err != nil || got != "[]" {
		t.Errorf("stored value = %q, %v", got, err)
	}
	if ttl := mr.TTL("chulseuk:roster"); ttl != 0 {
		t.Errorf("expected no ttl, got %v", ttl)
	}
}

func TestValkey_WriteError(t *testing.T) {
	_, client := newTestValkey(t)
	store := NewValkey(client, "chulseuk:roster", discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Write(ctx, []byte("[]"))
	var werr WriteError
	if !errors.As(err, &werr) {
		t.Fatalf("expected WriteError, got %v", err)
	}
	if werr.Backend != BackendValkey || werr.Key != "chulseuk:roster" {
		t.Errorf("unexpected error fields: %+v", werr)
	}
}

func TestSQLite(t *testing.T) {
	db, err := OpenSQLiteDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	store, err := NewSQLite(context.Background(), db, "chulseuk:roster")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })

	exerciseBackend(t, store)

	var count int64
	if err := db.Model(&KVEntry{}).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("expected single upserted row, got %d", count)
	}
}

func TestSQLite_KeysAreIndependent(t *testing.T) {
	db, err := OpenSQLiteDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	a, _ := NewSQLite(ctx, db, "a")
	b, _ := NewSQLite(ctx, db, "b")

	if err := a.Write(ctx, []byte(`["a"]`)); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := b.Read(ctx); ok {
		t.Error("key b should be empty")
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		b, closer, err := Open(ctx, Settings{Backend: "memory"}, discardLogger())
		if err != nil {
			t.Fatal(err)
		}
		defer closer()
		if _, ok := b.(*Memory); !ok {
			t.Errorf("expected *Memory, got %T", b)
		}
	})

	t.Run("valkey", func(t *testing.T) {
		mr := miniredis.RunT(t)
		b, closer, err := Open(ctx, Settings{
			Backend: "valkey",
			Key:     "chulseuk:roster",
			Valkey:  valkeyx.Config{Addr: mr.Addr(), DisableCache: true, ForceSingleClient: true},
		}, discardLogger())
		if err != nil {
			t.Fatal(err)
		}
		defer closer()
		exerciseBackend(t, b)
	})

	t.Run("sqlite", func(t *testing.T) {
		b, closer, err := Open(ctx, Settings{Backend: "SQLite", Key: "k", SQLitePath: ":memory:"}, discardLogger())
		if err != nil {
			t.Fatal(err)
		}
		defer closer()
		exerciseBackend(t, b)
	})

	t.Run("unknown", func(t *testing.T) {
		if _, _, err := Open(ctx, Settings{Backend: "etcd"}, discardLogger()); err == nil {
			t.Fatal("expected error for unknown backend")
		}
	})
}
