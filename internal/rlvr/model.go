// Package rlvr implements the verification and chain-of-thought reasoning
// stages: passages are scored for credibility and relevance, filtered, and
// fed into a structured reasoning trace that grounds the final answer.
package rlvr

import "github.com/0-ROK/little-prince-llm/internal/rag"

// VerifiedPassage is a passage with its credibility and relevance judgments,
// both on a 1–10 scale.
type VerifiedPassage struct {
	rag.Passage
	Credibility int `json:"credibility"`
	Relevance   int `json:"relevance"`
}

// ReasoningTrace is the structured multi-step reasoning output. The ordered
// sequences reflect temporal reasoning order and are surfaced verbatim to the
// caller for auditability.
type ReasoningTrace struct {
	ThinkingSteps []string `json:"thinkingSteps"`
	LogicalChain  []string `json:"logicalChain"`
	Conclusion    string   `json:"conclusion"`
}
