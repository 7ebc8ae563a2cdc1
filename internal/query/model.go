// Package query implements the pre-retrieval strategies: expansion into
// related sub-queries, transformation into a search-optimized rewrite, and
// routing into a per-category search plan.
package query

// Category classifies a question's intent against the novel.
type Category string

const (
	CategoryCharacter  Category = "character"
	CategoryPlot       Category = "plot"
	CategoryPhilosophy Category = "philosophy"
	CategorySymbolism  Category = "symbolism"
	CategoryGeneral    Category = "general"
)

// Weights splits retrieval emphasis between semantic and keyword matching.
// They are computed per category but not yet consumed by retrieval; the
// values are part of the routing contract and reserved for a hybrid scorer.
type Weights struct {
	Semantic float64 `json:"semantic"`
	Keyword  float64 `json:"keyword"`
}

// Plan parameterizes retrieval for one request. Produced once by Route and
// immutable afterwards.
type Plan struct {
	Category       Category `json:"category"`
	SearchStrategy string   `json:"searchStrategy"`
	TopK           int      `json:"topK"`
	Weights        Weights  `json:"weights"`
}

// planTable is the fixed category → plan mapping. The tuples are part of the
// routing contract, not tunables.
var planTable = map[Category]Plan{
	CategoryCharacter: {
		Category:       CategoryCharacter,
		SearchStrategy: "character_focused",
		TopK:           4,
		Weights:        Weights{Semantic: 0.7, Keyword: 0.3},
	},
	CategoryPlot: {
		Category:       CategoryPlot,
		SearchStrategy: "plot_focused",
		TopK:           5,
		Weights:        Weights{Semantic: 0.6, Keyword: 0.4},
	},
	CategoryPhilosophy: {
		Category:       CategoryPhilosophy,
		SearchStrategy: "philosophy_focused",
		TopK:           3,
		Weights:        Weights{Semantic: 0.8, Keyword: 0.2},
	},
	CategorySymbolism: {
		Category:       CategorySymbolism,
		SearchStrategy: "symbolism_focused",
		TopK:           4,
		Weights:        Weights{Semantic: 0.75, Keyword: 0.25},
	},
	CategoryGeneral: {
		Category:       CategoryGeneral,
		SearchStrategy: "general",
		TopK:           3,
		Weights:        Weights{Semantic: 0.6, Keyword: 0.4},
	},
}

// PlanFor returns the fixed plan for a category. Unknown categories map to
// the general plan.
func PlanFor(category Category) Plan {
	if plan, ok := planTable[category]; ok {
		return plan
	}
	return planTable[CategoryGeneral]
}
