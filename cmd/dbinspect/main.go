// Command dbinspect dumps the Inkwell store for debugging and verifies that
// the derived relations agree with the canonical entry rows. With -rebuild
// it also drops and re-feeds the search index from committed state.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/inkwellapp/inkwell-server/internal/config"
	"github.com/inkwellapp/inkwell-server/internal/domain"
	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

var rebuild = flag.Bool("rebuild", false, "drop and re-feed the search index")

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Environment: cfg.App.Environment,
		Level:       logger.ParseLevel(cfg.Logger.Level),
	})

	ctx := context.Background()

	st, err := sqlite.Open(cfg.DatabasePath(), log.Logger)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer st.Close()

	idx, err := search.NewIndex(search.Options{
		DataPath: cfg.Data.BasePath,
		Logger:   log.Logger,
	})
	if err != nil {
		log.Fatalf("open search index: %v", err)
	}
	defer idx.Close()

	searchSvc, err := service.NewSearchService(ctx, idx, st, log.Logger)
	if err != nil {
		log.Fatalf("init search service: %v", err)
	}

	if *rebuild {
		if err := searchSvc.Rebuild(ctx); err != nil {
			log.Fatalf("rebuild search index: %v", err)
		}
	}

	fmt.Println("=== Inkwell Store Inspection ===")
	fmt.Println()

	entries, err := st.ListEntries(ctx, store.ListOptions{})
	if err != nil {
		log.Fatalf("list entries: %v", err)
	}

	published := 0
	for _, e := range entries {
		if e.Published {
			published++
		}
	}
	fmt.Printf("Entries: %d (%d published, %d drafts)\n\n",
		len(entries), published, len(entries)-published)

	shown := min(len(entries), cfg.List.PageSize)
	if shown < len(entries) {
		fmt.Printf("Showing %d most recent (raise -page-size for more):\n", shown)
	}
	for _, e := range entries[:shown] {
		state := "draft"
		if e.Published {
			state = "published"
		}
		fmt.Printf("  %s  [%s]\n", e.Slug, state)
		fmt.Printf("    ID: %s\n", e.ID)
		fmt.Printf("    Title: %s\n", e.Title)
		if len(e.Tags) > 0 {
			fmt.Printf("    Tags: %v\n", e.Tags)
		}
	}
	fmt.Println()

	if err := inspectTags(ctx, st); err != nil {
		log.Fatalf("inspect tags: %v", err)
	}

	if err := inspectDocuments(ctx, st, entries); err != nil {
		log.Fatalf("inspect search documents: %v", err)
	}

	count, err := searchSvc.DocumentCount()
	if err != nil {
		log.Fatalf("count index documents: %v", err)
	}
	fmt.Printf("Ranked index documents: %d\n", count)
	if int(count) != len(entries) {
		fmt.Printf("  WARNING: index has %d documents for %d entries (run -rebuild)\n",
			count, len(entries))
	}
}

// inspectTags prints every tag and flags counts that disagree with the live
// entry_tags associations.
func inspectTags(ctx context.Context, st store.EntryStore) error {
	tags, err := st.ListTags(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Tags: %d\n", len(tags))
	for _, t := range tags {
		ids, err := st.EntryIDsForTag(ctx, t.Token)
		if err != nil {
			return err
		}
		fmt.Printf("  %-24s count=%d entries=%d\n", t.Token, t.Count, len(ids))
		if t.Count != len(ids) {
			fmt.Printf("    WARNING: count %d does not match %d live associations\n",
				t.Count, len(ids))
		}
	}
	fmt.Println()
	return nil
}

// inspectDocuments flags missing, orphaned, or stale search documents.
func inspectDocuments(ctx context.Context, st store.EntryStore, entries []*domain.Entry) error {
	docs, err := st.ListSearchDocuments(ctx)
	if err != nil {
		return err
	}

	byEntry := make(map[string]*domain.SearchDocument, len(docs))
	for _, doc := range docs {
		byEntry[doc.EntryID] = doc
	}

	fmt.Printf("Search documents: %d\n", len(docs))
	for _, e := range entries {
		doc, ok := byEntry[e.ID]
		if !ok {
			fmt.Printf("  WARNING: entry %s has no search document\n", e.ID)
			continue
		}
		want := domain.NewSearchDocument(e)
		if doc.Text != want.Text {
			fmt.Printf("  WARNING: entry %s has a stale search document\n", e.ID)
		}
		delete(byEntry, e.ID)
	}
	for entryID := range byEntry {
		fmt.Printf("  WARNING: search document %s has no entry row\n", entryID)
	}
	fmt.Println()
	return nil
}
