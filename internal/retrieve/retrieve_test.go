package retrieve

import (
	"reflect"
	"strings"
	"testing"

	"github.com/silice-dev/silice/internal/protocol"
	"github.com/silice-dev/silice/internal/store"
)

func TestRankOrdersByOverlapThenIndexOrder(t *testing.T) {
	index := protocol.NewMasterIndex("/repo")
	index.Upsert("billing.py", "out/billing.json", "invoices and payment retries")
	index.Upsert("auth.py", "out/auth.json", "login session token handling")
	index.Upsert("misc.py", "out/misc.json", "assorted helpers")

	// "login token payment": auth matches 2 words, billing 1, misc 0.
	got := Rank(index, "login token payment", 5)
	want := []string{"out/auth.json", "out/billing.json"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Rank = %v, want %v", got, want)
	}

	// top_k=1 keeps only the best entry.
	got = Rank(index, "login token payment", 1)
	if !reflect.DeepEqual(got, []string{"out/auth.json"}) {
		t.Fatalf("Rank top 1 = %v, want [out/auth.json]", got)
	}
}

func TestRankTiesKeepIndexOrder(t *testing.T) {
	index := protocol.NewMasterIndex("/repo")
	index.Upsert("b.py", "out/b.json", "handles billing")
	index.Upsert("a.py", "out/a.json", "handles auth")

	got := Rank(index, "handles", 2)
	want := []string{"out/b.json", "out/a.json"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("tied scores should keep index order: %v", got)
	}
}

func TestRankMatchesFileNameToo(t *testing.T) {
	index := protocol.NewMasterIndex("/repo")
	index.Upsert("payments/stripe.py", "out/stripe.json", "third-party integration")

	if got := Rank(index, "stripe", 1); len(got) != 1 {
		t.Fatalf("expected file-name match, got %v", got)
	}
}

func TestRankCountsEachQueryWordOnce(t *testing.T) {
	index := protocol.NewMasterIndex("/repo")
	index.Upsert("a.py", "out/a.json", "auth auth auth")
	index.Upsert("b.py", "out/b.json", "auth billing")

	// Repeating a word in the summary or the query must not inflate scores:
	// b.py matches 2 distinct words and wins.
	got := Rank(index, "auth auth billing", 1)
	if !reflect.DeepEqual(got, []string{"out/b.json"}) {
		t.Fatalf("expected b.py to win on distinct-word overlap, got %v", got)
	}
}

func TestContextEndToEnd(t *testing.T) {
	maps := store.NewMapStore(t.TempDir())
	index := protocol.NewMasterIndex("/repo")

	authLoc, err := maps.Save("a.py", &protocol.FileNode{Summary: "handles auth"})
	if err != nil {
		t.Fatal(err)
	}
	billLoc, err := maps.Save("b.py", &protocol.FileNode{Summary: "handles billing"})
	if err != nil {
		t.Fatal(err)
	}
	index.Upsert("a.py", authLoc, "handles auth")
	index.Upsert("b.py", billLoc, "handles billing")

	ctx := Context(index, maps, "auth", 1)
	if !strings.Contains(ctx, "handles auth") {
		t.Fatalf("context should contain a.py's document: %q", ctx)
	}
	if strings.Contains(ctx, "handles billing") {
		t.Fatalf("top_k=1 must exclude b.py's document: %q", ctx)
	}
}

func TestContextSkipsUnreadableDocuments(t *testing.T) {
	maps := store.NewMapStore(t.TempDir())
	index := protocol.NewMasterIndex("/repo")
	index.Upsert("a.py", "does/not/exist.json", "handles auth")

	if ctx := Context(index, maps, "auth", 3); ctx != "" {
		t.Fatalf("expected empty context, got %q", ctx)
	}
}

func TestContextEmptyWhenNothingScores(t *testing.T) {
	maps := store.NewMapStore(t.TempDir())
	index := protocol.NewMasterIndex("/repo")
	index.Upsert("a.py", "out/a.json", "handles auth")

	if ctx := Context(index, maps, "zzz qqq", 3); ctx != "" {
		t.Fatalf("expected empty context, got %q", ctx)
	}
}

func TestContextJoinsWithSeparator(t *testing.T) {
	maps := store.NewMapStore(t.TempDir())
	index := protocol.NewMasterIndex("/repo")

	for _, f := range []string{"a.py", "b.py"} {
		loc, err := maps.Save(f, &protocol.FileNode{Summary: "shared words here"})
		if err != nil {
			t.Fatal(err)
		}
		index.Upsert(f, loc, "shared words here")
	}

	ctx := Context(index, maps, "shared", 2)
	if strings.Count(ctx, Separator) != 1 {
		t.Fatalf("expected exactly one separator between two documents: %q", ctx)
	}
}
