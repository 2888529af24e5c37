package domain

import "time"

// Passage is a topically coherent unit of indexed text. Passages are
// immutable once indexed; a corpus change rebuilds the whole set.
type Passage struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Text     string `json:"text"`
	Source   string `json:"source"`
	Category string `json:"category,omitempty"`
	Position int    `json:"position"`
}

// EmbeddingText returns the text that gets embedded for a passage.
// Title and body are combined for a better semantic representation.
func (p Passage) EmbeddingText() string {
	if p.Title == "" {
		return p.Text
	}
	return p.Title + "\n" + p.Text
}

// SourceDocument is a raw document handed to ingestion: already-extracted
// text plus metadata. File formats and upload mechanics are external.
type SourceDocument struct {
	Title    string
	Text     string
	Source   string
	Category string
}

// ScoredCandidate carries the per-signal scores for one passage during a
// single query. Produced per request, discarded after response assembly.
type ScoredCandidate struct {
	PassageID     string
	SemanticScore float64
	LexicalScore  float64
	FusedScore    float64
	RerankScore   float64
	Reranked      bool
}

// RankedPassage is one entry of the retrieval handoff contract.
type RankedPassage struct {
	Passage       Passage `json:"passage"`
	Score         float64 `json:"score"`
	SemanticScore float64 `json:"semantic_score"`
	LexicalScore  float64 `json:"lexical_score"`
	FusedScore    float64 `json:"fused_score"`
	RerankScore   float64 `json:"rerank_score,omitempty"`
}

// SourceReference renders the citation line for a ranked passage.
func (r RankedPassage) SourceReference() string {
	if r.Passage.Title == "" {
		return r.Passage.Source
	}
	return r.Passage.Title + " (" + r.Passage.Source + ")"
}

// RetrievalResult is what the orchestrator hands to the generation layer.
// The orchestrator never calls the generative model itself.
type RetrievalResult struct {
	Query         string          `json:"query"`
	MemoryContext string          `json:"memory_context"`
	Passages      []RankedPassage `json:"ranked_passages"`
}

// Action enumerates the follow-ups a resolved ticket may require.
type Action string

const (
	ActionNone                   Action = "none"
	ActionEscalateToAbuseTeam    Action = "escalate_to_abuse_team"
	ActionEscalateToBilling      Action = "escalate_to_billing"
	ActionEscalateToTechnical    Action = "escalate_to_technical"
	ActionCustomerActionRequired Action = "customer_action_required"
	ActionFollowUpRequired       Action = "follow_up_required"
)

// ConversationTurn is one completed query/answer exchange. Turns are never
// mutated after creation.
type ConversationTurn struct {
	Query      string
	Answer     string
	References []string
	Action     Action
	Timestamp  time.Time
}

// CorpusStats describes the currently active index snapshot.
type CorpusStats struct {
	Passages   int     `json:"passages"`
	Terms      int     `json:"terms"`
	Dimension  int     `json:"dimension"`
	AvgLength  float64 `json:"avg_length"`
	Generation uint64  `json:"generation"`
}
