package index

import (
	"testing"

	"knowledge/internal/adapter/analyzer"
	"knowledge/internal/domain"
)

func buildKeywordIndex(t *testing.T) *KeywordIndex {
	t.Helper()
	ix := NewKeywordIndex(1.5, 0.75, analyzer.NewTokenizer())
	ix.Index([]domain.Passage{
		{ID: "auth", Title: "Authentication", Text: "User authentication with tokens and verification codes"},
		{ID: "dns", Title: "DNS Records", Text: "Nameserver changes propagate within forty eight hours"},
		{ID: "billing", Title: "Billing", Text: "Invoices and payment disputes go to the billing department billing portal"},
	})
	return ix
}

func TestKeywordScoreZeroForNonMatching(t *testing.T) {
	ix := buildKeywordIndex(t)

	scores := ix.ScoreQuery("authentication verification")

	if len(scores) != 3 {
		t.Fatalf("every passage must get a score entry, got %d", len(scores))
	}
	if scores["dns"] != 0 {
		t.Errorf("non-matching passage must score exactly zero, got %v", scores["dns"])
	}
	if scores["auth"] <= 0 {
		t.Errorf("matching passage must score positive, got %v", scores["auth"])
	}
}

func TestKeywordRareTermRanksHigher(t *testing.T) {
	ix := buildKeywordIndex(t)

	scores := ix.ScoreQuery("billing invoices")
	if scores["billing"] <= scores["auth"] || scores["billing"] <= scores["dns"] {
		t.Errorf("passage with matching rare terms should rank highest: %v", scores)
	}
}

func TestKeywordTermSaturation(t *testing.T) {
	ix := NewKeywordIndex(1.5, 0.75, analyzer.NewTokenizer())
	ix.Index([]domain.Passage{
		{ID: "once", Text: "transfer policy overview plus several unrelated filler words here"},
		{ID: "thrice", Text: "transfer transfer transfer policy plus several unrelated filler words"},
	})

	scores := ix.ScoreQuery("transfer")
	if scores["thrice"] <= scores["once"] {
		t.Errorf("higher tf should score higher: %v", scores)
	}
	// Diminishing returns: a 3x repetition is worth far less than 3x score.
	if scores["thrice"] >= 3*scores["once"] {
		t.Errorf("term repetition should saturate: once=%v thrice=%v", scores["once"], scores["thrice"])
	}
}

func TestKeywordEmptyIndex(t *testing.T) {
	ix := NewKeywordIndex(1.5, 0.75, analyzer.NewTokenizer())
	ix.Index(nil)

	scores := ix.ScoreQuery("anything")
	if len(scores) != 0 {
		t.Fatalf("empty index should yield no entries, got %d", len(scores))
	}
}

func TestKeywordUnknownTermsIgnored(t *testing.T) {
	ix := buildKeywordIndex(t)
	scores := ix.ScoreQuery("zzzunknown")
	for id, s := range scores {
		if s != 0 {
			t.Errorf("unknown term scored %v for %s", s, id)
		}
	}
}
