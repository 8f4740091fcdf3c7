package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwellapp/inkwell-server/internal/store"
)

func TestListTags_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	saves := []struct {
		id, slug string
		tokens   []string
	}{
		{"entry-1", "one", []string{"go", "web"}},
		{"entry-2", "two", []string{"go", "api"}},
		{"entry-3", "three", []string{"go"}},
	}
	for _, sv := range saves {
		e := makeTestEntry(sv.id, sv.slug, true, now)
		if err := s.SaveEntry(ctx, e, sv.tokens); err != nil {
			t.Fatalf("SaveEntry %s: %v", sv.id, err)
		}
	}

	tags, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if len(tags) != 3 {
		t.Fatalf("got %d tags, want 3", len(tags))
	}
	// Count descending, then token ascending for ties.
	if tags[0].Token != "go" || tags[0].Count != 3 {
		t.Errorf("tags[0]: got %+v, want go/3", tags[0])
	}
	if tags[1].Token != "api" || tags[1].Count != 1 {
		t.Errorf("tags[1]: got %+v, want api/1", tags[1])
	}
	if tags[2].Token != "web" || tags[2].Count != 1 {
		t.Errorf("tags[2]: got %+v, want web/1", tags[2])
	}
}

func TestGetTag_NotFound(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.GetTag(context.Background(), "missing"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEntryIDsForTag_Ordering(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for _, id := range []string{"entry-c", "entry-a", "entry-b"} {
		e := makeTestEntry(id, "slug-"+id, true, now)
		if err := s.SaveEntry(ctx, e, []string{"go"}); err != nil {
			t.Fatalf("SaveEntry %s: %v", id, err)
		}
	}

	ids, err := s.EntryIDsForTag(ctx, "go")
	if err != nil {
		t.Fatalf("EntryIDsForTag: %v", err)
	}
	want := []string{"entry-a", "entry-b", "entry-c"}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d]: got %q, want %q", i, ids[i], want[i])
		}
	}
}

func TestGetEntryTags_Empty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := makeTestEntry("entry-1", "untagged", true, time.Now().UTC())
	if err := s.SaveEntry(ctx, e, nil); err != nil {
		t.Fatalf("SaveEntry: %v", err)
	}

	tokens, err := s.GetEntryTags(ctx, "entry-1")
	if err != nil {
		t.Fatalf("GetEntryTags: %v", err)
	}
	if len(tokens) != 0 {
		t.Errorf("expected no tokens, got %v", tokens)
	}
}
