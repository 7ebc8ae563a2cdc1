// Package orchestrator composes the retrieval, preprocessing, refinement,
// verification and synthesis stages into the named answering strategies.
package orchestrator

import (
	"github.com/0-ROK/little-prince-llm/internal/query"
	"github.com/0-ROK/little-prince-llm/internal/rlvr"
)

// Strategy names one fixed stage sequence.
type Strategy string

const (
	StrategyNaive      Strategy = "naive"
	StrategyAdvanced   Strategy = "advanced"
	StrategyRerank     Strategy = "rerank"
	StrategyCompressed Strategy = "compressed"
	StrategyHybrid     Strategy = "hybrid"
	StrategyRLVR       Strategy = "rlvr"
)

// Result is the terminal artifact of one request. Metadata is nil for the
// naive strategy and a strategy-specific record otherwise.
type Result struct {
	Answer   string
	Contexts []string
	Metadata any
}

// DocumentRef carries a document text for metadata surfaces.
type DocumentRef struct {
	Text string `json:"text"`
}

// ScoredDocument is a retrieved document with its similarity score.
type ScoredDocument struct {
	Text          string  `json:"text"`
	OriginalScore float32 `json:"originalScore,omitempty"`
}

// RerankedScore pairs a rerank score with a short preview of the document it
// was assigned to.
type RerankedScore struct {
	Score   int    `json:"score"`
	Preview string `json:"preview"`
}

// VerifiedDocument is a document with its verification judgments.
type VerifiedDocument struct {
	Text        string `json:"text"`
	Credibility int    `json:"credibility"`
	Relevance   int    `json:"relevance"`
}

// VerificationReport summarizes the verification stage.
type VerificationReport struct {
	VerifiedDocs        []VerifiedDocument `json:"verifiedDocs"`
	VerificationSummary string             `json:"verificationSummary"`
}

// AdvancedMetadata documents the pre-retrieval work behind an advanced answer.
type AdvancedMetadata struct {
	ExpandedQueries  []string   `json:"expandedQueries"`
	TransformedQuery string     `json:"transformedQuery"`
	RoutingStrategy  query.Plan `json:"routingStrategy"`
}

// RerankMetadata documents the rerank stage.
type RerankMetadata struct {
	Method             string           `json:"method"`
	RerankedScores     []RerankedScore  `json:"rerankedScores"`
	OriginalDocuments  []ScoredDocument `json:"originalDocuments"`
	ProcessedDocuments []DocumentRef    `json:"processedDocuments"`
}

// CompressionMetadata documents the compression stage.
type CompressionMetadata struct {
	Method             string           `json:"method"`
	OriginalDocCount   int              `json:"originalDocCount"`
	CompressionRatio   string           `json:"compressionRatio"`
	OriginalDocuments  []ScoredDocument `json:"originalDocuments"`
	CompressedDocument DocumentRef      `json:"compressedDocument"`
}

// HybridMetadata documents the combined rerank + compression flow.
type HybridMetadata struct {
	Method             string           `json:"method"`
	OriginalDocCount   int              `json:"originalDocCount"`
	RerankedDocCount   int              `json:"rerankedDocCount"`
	CompressionRatio   string           `json:"compressionRatio"`
	TopRerankScores    []int            `json:"topRerankScores"`
	OriginalDocuments  []ScoredDocument `json:"originalDocuments"`
	RerankedDocuments  []DocumentRef    `json:"rerankedDocuments"`
	CompressedDocument DocumentRef      `json:"compressedDocument"`
}

// RLVRMetadata documents the verification and reasoning stages.
type RLVRMetadata struct {
	Method            string              `json:"method"`
	Verification      VerificationReport  `json:"verification"`
	Reasoning         rlvr.ReasoningTrace `json:"reasoning"`
	CotSteps          []string            `json:"cotSteps"`
	OriginalDocuments []ScoredDocument    `json:"originalDocuments"`
}
