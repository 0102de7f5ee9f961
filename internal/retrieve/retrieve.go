// Package retrieve scores index entries against a free-text query and
// assembles the raw map documents of the best matches as model context.
package retrieve

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/silice-dev/silice/internal/protocol"
	"github.com/silice-dev/silice/internal/store"
)

// Separator joins the selected documents in the returned context.
const Separator = "\n---\n"

type scored struct {
	score  int
	pos    int // index order, tiebreaker
	mapRef string
}

// Rank scores every entry by distinct query-word overlap against its cached
// summary and file name, drops zero scores, and returns the map refs of the
// topK best entries. Ties keep index order.
func Rank(index *protocol.MasterIndex, query string, topK int) []string {
	words := queryWords(query)
	if len(words) == 0 || topK <= 0 {
		return nil
	}

	candidates := make([]scored, 0)
	for i, entry := range index.GraphNodes {
		summary := strings.ToLower(entry.Summary)
		file := strings.ToLower(entry.File)

		score := 0
		for word := range words {
			if strings.Contains(summary, word) || strings.Contains(file, word) {
				score++
			}
		}
		if score > 0 {
			candidates = append(candidates, scored{score: score, pos: i, mapRef: entry.MapRef})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}

	refs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		refs = append(refs, c.mapRef)
	}
	return refs
}

// Context ranks the index for query and concatenates the raw document text of
// the top matches. Unreadable documents are skipped; an empty string means
// nothing relevant was found.
func Context(index *protocol.MasterIndex, maps *store.MapStore, query string, topK int) string {
	parts := make([]string, 0, topK)
	for _, ref := range Rank(index, query, topK) {
		raw, err := maps.ReadRaw(ref)
		if err != nil {
			slog.Warn("skipping unreadable map document", "map_ref", ref, "error", err)
			continue
		}
		parts = append(parts, string(raw))
	}
	return strings.Join(parts, Separator)
}

// queryWords lowercases and splits the query on whitespace into a set.
// Each distinct word counts at most once toward an entry's score.
func queryWords(query string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		words[w] = true
	}
	return words
}
