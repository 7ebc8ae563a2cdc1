package orchestrator

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/0-ROK/little-prince-llm/internal/answer"
	"github.com/0-ROK/little-prince-llm/internal/llm"
	"github.com/0-ROK/little-prince-llm/internal/query"
	"github.com/0-ROK/little-prince-llm/internal/rag"
	"github.com/0-ROK/little-prince-llm/internal/refine"
	"github.com/0-ROK/little-prince-llm/internal/rlvr"
)

// Fixed per-strategy retrieval depths.
const (
	naiveTopK    = 2
	rerankTopK   = 6
	rerankKeep   = 3
	compressTopK = 5
	hybridTopK   = 8
	hybridKeep   = 5
	rlvrTopK     = 5
)

const previewLength = 50

// ErrUnknownStrategy is returned by Run for a strategy name outside the table.
var ErrUnknownStrategy = fmt.Errorf("unknown strategy")

// Retriever is the retrieval surface the pipeline depends on.
type Retriever interface {
	Retrieve(ctx context.Context, query string, topK int) ([]rag.Passage, error)
	RetrieveMulti(ctx context.Context, queries []string, topK int) ([]rag.Passage, error)
}

// Pipeline wires every stage together. One Pipeline serves all strategies;
// stages hold no request state, so it is safe for concurrent use.
type Pipeline struct {
	retriever    Retriever
	preprocessor *query.Preprocessor
	reranker     *refine.Reranker
	compressor   *refine.Compressor
	verifier     *rlvr.Verifier
	reasoner     *rlvr.Reasoner
	synthesizer  *answer.Synthesizer
	logger       *zap.Logger
}

// NewPipeline builds a pipeline. chatModel serves the final synthesis call;
// auxModel serves every auxiliary stage (expansion, routing, rerank scoring,
// compression, verification, reasoning) and falls back to chatModel when nil.
func NewPipeline(retriever Retriever, chatModel, auxModel llm.LLM, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if auxModel == nil {
		auxModel = chatModel
	}
	return &Pipeline{
		retriever:    retriever,
		preprocessor: query.NewPreprocessor(auxModel, logger),
		reranker:     refine.NewReranker(auxModel, logger),
		compressor:   refine.NewCompressor(auxModel, logger),
		verifier:     rlvr.NewVerifier(auxModel, logger),
		reasoner:     rlvr.NewReasoner(auxModel, logger),
		synthesizer:  answer.NewSynthesizer(chatModel, logger),
		logger:       logger.With(zap.String("component", "pipeline")),
	}
}

// Run dispatches to the named strategy.
func (p *Pipeline) Run(ctx context.Context, strategy Strategy, question string) (*Result, error) {
	switch strategy {
	case StrategyNaive:
		return p.Naive(ctx, question)
	case StrategyAdvanced:
		return p.Advanced(ctx, question)
	case StrategyRerank:
		return p.Rerank(ctx, question)
	case StrategyCompressed:
		return p.Compressed(ctx, question)
	case StrategyHybrid:
		return p.Hybrid(ctx, question)
	case StrategyRLVR:
		return p.RLVR(ctx, question)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Naive retrieves the top-2 passages and answers directly from them.
func (p *Pipeline) Naive(ctx context.Context, question string) (*Result, error) {
	passages, err := p.retriever.Retrieve(ctx, question, naiveTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	texts := passageTexts(passages)
	reply, err := p.synthesizer.Synthesize(ctx, question, answer.PassageContext(texts),
		answer.Options{CorrectMisconceptions: true})
	if err != nil {
		return nil, err
	}

	return &Result{Answer: reply, Contexts: texts}, nil
}

// Advanced expands, transforms and routes the question, retrieves the merged
// passage set for all resulting queries, and answers from it.
func (p *Pipeline) Advanced(ctx context.Context, question string) (*Result, error) {
	expanded := p.preprocessor.Expand(ctx, question)
	transformed := p.preprocessor.Transform(ctx, question)
	plan := p.preprocessor.Route(ctx, question)

	queries := dedupQueries(append([]string{question, transformed}, expanded...))

	passages, err := p.retriever.RetrieveMulti(ctx, queries, plan.TopK)
	if err != nil {
		return nil, fmt.Errorf("advanced retrieval failed: %w", err)
	}

	texts := passageTexts(passages)
	reply, err := p.synthesizer.Synthesize(ctx, question, answer.PassageContext(texts),
		answer.Options{CorrectMisconceptions: true})
	if err != nil {
		return nil, err
	}

	return &Result{
		Answer:   reply,
		Contexts: texts,
		Metadata: AdvancedMetadata{
			ExpandedQueries:  expanded,
			TransformedQuery: transformed,
			RoutingStrategy:  plan,
		},
	}, nil
}

// Rerank retrieves six passages, scores them by relevance and answers from
// the top three.
func (p *Pipeline) Rerank(ctx context.Context, question string) (*Result, error) {
	passages, err := p.retriever.Retrieve(ctx, question, rerankTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	ranked := p.reranker.Rerank(ctx, question, passages)
	top := ranked
	if len(top) > rerankKeep {
		top = top[:rerankKeep]
	}

	texts := rankedTexts(top)
	reply, err := p.synthesizer.Synthesize(ctx, question, answer.PassageContext(texts), answer.Options{})
	if err != nil {
		return nil, err
	}

	scores := make([]RerankedScore, len(ranked))
	for i, r := range ranked {
		scores[i] = RerankedScore{Score: r.RerankScore, Preview: preview(r.Text)}
	}

	return &Result{
		Answer:   reply,
		Contexts: texts,
		Metadata: RerankMetadata{
			Method:             "rerank",
			RerankedScores:     scores,
			OriginalDocuments:  scoredDocuments(passages),
			ProcessedDocuments: documentRefs(texts),
		},
	}, nil
}

// Compressed retrieves five passages, compresses them into one summary and
// answers from the summary.
func (p *Pipeline) Compressed(ctx context.Context, question string) (*Result, error) {
	passages, err := p.retriever.Retrieve(ctx, question, compressTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	texts := passageTexts(passages)
	compressed := p.compressor.Compress(ctx, question, texts)

	reply, err := p.synthesizer.Synthesize(ctx, question, compressed, answer.Options{})
	if err != nil {
		return nil, err
	}

	return &Result{
		Answer:   reply,
		Contexts: texts,
		Metadata: CompressionMetadata{
			Method:             "prompt_compression",
			OriginalDocCount:   len(passages),
			CompressionRatio:   compressionRatio(texts, compressed),
			OriginalDocuments:  scoredDocuments(passages),
			CompressedDocument: DocumentRef{Text: compressed},
		},
	}, nil
}

// Hybrid retrieves eight passages, keeps the top five by rerank score,
// compresses them and answers from the summary.
func (p *Pipeline) Hybrid(ctx context.Context, question string) (*Result, error) {
	passages, err := p.retriever.Retrieve(ctx, question, hybridTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	ranked := p.reranker.Rerank(ctx, question, passages)
	top := ranked
	if len(top) > hybridKeep {
		top = top[:hybridKeep]
	}

	texts := rankedTexts(top)
	compressed := p.compressor.Compress(ctx, question, texts)

	reply, err := p.synthesizer.Synthesize(ctx, question, compressed, answer.Options{})
	if err != nil {
		return nil, err
	}

	topScores := make([]int, len(top))
	for i, r := range top {
		topScores[i] = r.RerankScore
	}

	return &Result{
		Answer:   reply,
		Contexts: texts,
		Metadata: HybridMetadata{
			Method:             "hybrid_rerank_compression",
			OriginalDocCount:   len(passages),
			RerankedDocCount:   len(top),
			CompressionRatio:   compressionRatio(texts, compressed),
			TopRerankScores:    topScores,
			OriginalDocuments:  scoredDocuments(passages),
			RerankedDocuments:  documentRefs(texts),
			CompressedDocument: DocumentRef{Text: compressed},
		},
	}, nil
}

// RLVR retrieves five passages, verifies them, derives a reasoning trace and
// answers from the trace's logical chain and conclusion.
func (p *Pipeline) RLVR(ctx context.Context, question string) (*Result, error) {
	passages, err := p.retriever.Retrieve(ctx, question, rlvrTopK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	admitted, summary := p.verifier.Verify(ctx, question, passages)
	trace := p.reasoner.Reason(ctx, question, admitted)

	reply, err := p.synthesizer.Synthesize(ctx, question, answer.TraceContext(trace), answer.Options{})
	if err != nil {
		return nil, err
	}

	verifiedDocs := make([]VerifiedDocument, len(admitted))
	texts := make([]string, len(admitted))
	for i, v := range admitted {
		verifiedDocs[i] = VerifiedDocument{Text: v.Text, Credibility: v.Credibility, Relevance: v.Relevance}
		texts[i] = v.Text
	}

	return &Result{
		Answer:   reply,
		Contexts: texts,
		Metadata: RLVRMetadata{
			Method: "rlvr",
			Verification: VerificationReport{
				VerifiedDocs:        verifiedDocs,
				VerificationSummary: summary,
			},
			Reasoning:         trace,
			CotSteps:          trace.ThinkingSteps,
			OriginalDocuments: scoredDocuments(passages),
		},
	}, nil
}

func passageTexts(passages []rag.Passage) []string {
	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}
	return texts
}

func rankedTexts(ranked []refine.RankedPassage) []string {
	texts := make([]string, len(ranked))
	for i, r := range ranked {
		texts[i] = r.Text
	}
	return texts
}

func scoredDocuments(passages []rag.Passage) []ScoredDocument {
	docs := make([]ScoredDocument, len(passages))
	for i, p := range passages {
		docs[i] = ScoredDocument{Text: p.Text, OriginalScore: p.Score}
	}
	return docs
}

func documentRefs(texts []string) []DocumentRef {
	refs := make([]DocumentRef, len(texts))
	for i, t := range texts {
		refs[i] = DocumentRef{Text: t}
	}
	return refs
}

func dedupQueries(queries []string) []string {
	seen := make(map[string]struct{}, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if q == "" {
			continue
		}
		if _, ok := seen[q]; ok {
			continue
		}
		seen[q] = struct{}{}
		out = append(out, q)
	}
	return out
}

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewLength {
		return text
	}
	return string(runes[:previewLength]) + "..."
}

// compressionRatio reports the compressed size as a percentage of the
// original, measured in runes.
func compressionRatio(originals []string, compressed string) string {
	var total int
	for _, t := range originals {
		total += len([]rune(t))
	}
	if total == 0 {
		return "0.0%"
	}
	ratio := float64(len([]rune(compressed))) / float64(total) * 100
	return fmt.Sprintf("%.1f%%", ratio)
}
