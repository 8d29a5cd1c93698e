package storage_test

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/vbamtools/campaignstore/internal/platform/errors"
	"github.com/vbamtools/campaignstore/internal/storage"
)

func sampleRowSet() *storage.RowSet {
	return storage.NewRowSet(
		[]string{"id", "name", "pop", "owner", "created_at"},
		[][]any{
			{int64(1), "Senoria Prime", int64(7), nil, int64(1700000000000)},
			{int64(2), []byte("Kili Homeworld"), int64(4), int64(3), int64(1700000300000)},
		},
	)
}

func TestRowSetTypedAccess(t *testing.T) {
	rs := sampleRowSet()
	if rs.Len() != 2 {
		t.Fatalf("len = %d, want 2", rs.Len())
	}

	row := rs.Row(0)
	id, err := row.Int("id")
	if err != nil {
		t.Fatalf("int: %v", err)
	}
	if id != 1 {
		t.Fatalf("id = %d", id)
	}

	name, err := row.Text("name")
	if err != nil {
		t.Fatalf("text: %v", err)
	}
	if name != "Senoria Prime" {
		t.Fatalf("name = %q", name)
	}

	// Blob-backed text decodes as text too; SQLite stores either.
	name2, err := rs.Row(1).Text("name")
	if err != nil {
		t.Fatalf("text from blob: %v", err)
	}
	if name2 != "Kili Homeworld" {
		t.Fatalf("name = %q", name2)
	}

	created, err := row.Time("created_at")
	if err != nil {
		t.Fatalf("time: %v", err)
	}
	want := time.UnixMilli(1700000000000).UTC()
	if !created.Equal(want) {
		t.Fatalf("created = %s, want %s", created, want)
	}
}

func TestRowSetNullableInt(t *testing.T) {
	rs := sampleRowSet()

	_, ok, err := rs.Row(0).NullInt("owner")
	if err != nil {
		t.Fatalf("null int: %v", err)
	}
	if ok {
		t.Fatal("expected null owner")
	}

	owner, ok, err := rs.Row(1).NullInt("owner")
	if err != nil {
		t.Fatalf("null int: %v", err)
	}
	if !ok || owner != 3 {
		t.Fatalf("owner = %d ok=%v", owner, ok)
	}
}

func TestRowSetDecodeMismatchNamesColumn(t *testing.T) {
	rs := sampleRowSet()

	_, err := rs.Row(0).Int("name")
	if err == nil {
		t.Fatal("expected decode error")
	}
	var domainErr *apperrors.Error
	if !errors.As(err, &domainErr) {
		t.Fatalf("expected domain error, got %T", err)
	}
	if domainErr.Code != apperrors.CodeDecode {
		t.Fatalf("code = %q", domainErr.Code)
	}
	if domainErr.Metadata["column"] != "name" {
		t.Fatalf("column metadata = %v", domainErr.Metadata)
	}
}

func TestRowSetUnknownColumn(t *testing.T) {
	rs := sampleRowSet()
	if _, err := rs.Row(0).Text("absent"); !apperrors.HasCode(err, apperrors.CodeDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestCursorIterationAndReset(t *testing.T) {
	cursor := storage.NewCursor([]int64{10, 20, 30})
	if cursor.Len() != 3 {
		t.Fatalf("len = %d", cursor.Len())
	}

	var seen []int64
	for {
		v, ok := cursor.Next()
		if !ok {
			break
		}
		seen = append(seen, v)
	}
	if len(seen) != 3 || seen[2] != 30 {
		t.Fatalf("seen = %v", seen)
	}

	if _, ok := cursor.Next(); ok {
		t.Fatal("expected drained cursor")
	}

	cursor.Reset()
	v, ok := cursor.Next()
	if !ok || v != 10 {
		t.Fatalf("after reset got %d ok=%v", v, ok)
	}
}

func TestCursorCollect(t *testing.T) {
	cursor := storage.NewCursor([]string{"a", "b"})
	if _, ok := cursor.Next(); !ok {
		t.Fatal("expected first record")
	}
	rest := cursor.Collect()
	if len(rest) != 1 || rest[0] != "b" {
		t.Fatalf("rest = %v", rest)
	}
}
