// Package pipeline orchestrates page ingestion: fetch, dual-path extraction,
// merge, persistence and embedding.
package pipeline

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"qamind/pkg/core/analyzer"
	"qamind/pkg/core/chunk"
	"qamind/pkg/core/confluence"
	"qamind/pkg/core/embed"
	"qamind/pkg/core/extract"
	"qamind/pkg/core/logging"
	"qamind/pkg/core/store"
)

// Vectorizer is the embedding dependency. Nil disables the vector path.
type Vectorizer interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

var _ Vectorizer = (*embed.Embedder)(nil)

// Options tunes the orchestrator.
type Options struct {
	// Concurrency bounds the number of pages processed in parallel.
	Concurrency int

	// SkipUnchanged skips pages whose content hash matches the stored
	// checklist.
	SkipUnchanged bool

	// MergeOptions are passed through to the merge engine.
	Merge extract.MergeOptions

	// Keywords override the extraction keyword sets. Nil uses defaults.
	Keywords *extract.Keywords

	// ChunkSize and ChunkOverlap are token budgets for the vector path.
	// Zero values take the chunker defaults.
	ChunkSize    int
	ChunkOverlap int
}

// Orchestrator runs the ingestion flow for Confluence pages.
type Orchestrator struct {
	api        confluence.API
	parser     *extract.HTMLParser
	analyzer   *analyzer.Analyzer
	merger     *extract.Merger
	chunker    *chunk.Chunker
	vectorizer Vectorizer

	sections   *store.SectionRepo
	checklists *store.ChecklistRepo
	testcases  *store.TestcaseRepo
	chunks     *store.ChunkRepo
	jobs       *store.JobRepo

	opts Options
}

// New creates an orchestrator. analyzer and vectorizer may be nil, which
// disables the LLM path and the vector path respectively.
func New(api confluence.API, an *analyzer.Analyzer, vectorizer Vectorizer, opts Options) *Orchestrator {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = chunk.DefaultSize
	}
	if opts.ChunkOverlap <= 0 {
		opts.ChunkOverlap = chunk.DefaultOverlap
	}
	return &Orchestrator{
		api:        api,
		parser:     extract.NewHTMLParser(opts.Keywords),
		analyzer:   an,
		merger:     extract.NewMerger(opts.Merge),
		chunker:    chunk.New(opts.ChunkSize, opts.ChunkOverlap),
		vectorizer: vectorizer,
		sections:   store.NewSectionRepo(),
		checklists: store.NewChecklistRepo(),
		testcases:  store.NewTestcaseRepo(),
		chunks:     store.NewChunkRepo(),
		jobs:       store.NewJobRepo(),
		opts:       opts,
	}
}

// PageStatus values for PageResult.
const (
	StatusIngested = "ingested"
	StatusSkipped  = "skipped"
	StatusFailed   = "failed"
)

// PageResult reports the outcome of one page.
type PageResult struct {
	PageID    string
	Title     string
	Status    string
	Reason    string
	Testcases int
	Chunks    int
}

// Summary aggregates a whole run.
type Summary struct {
	JobID   string
	Total   int
	Done    int
	Skipped int
	Failed  int
	Pages   []PageResult
}

// Run ingests the given pages with bounded parallelism and records progress
// in an ingestion job row. Page failures are reported, never fatal.
func (o *Orchestrator) Run(ctx context.Context, pages []confluence.Page) (*Summary, error) {
	log := logging.New("pipeline")

	jobID, err := o.jobs.Start(ctx, len(pages))
	if err != nil {
		return nil, err
	}

	summary := &Summary{JobID: jobID, Total: len(pages), Pages: make([]PageResult, len(pages))}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.opts.Concurrency)

	for i, page := range pages {
		g.Go(func() error {
			result := o.ProcessPage(gctx, page)

			mu.Lock()
			summary.Pages[i] = result
			switch result.Status {
			case StatusIngested:
				summary.Done++
			case StatusSkipped:
				summary.Skipped++
			default:
				summary.Failed++
			}
			done, skipped, failed := summary.Done, summary.Skipped, summary.Failed
			mu.Unlock()

			log.WithFields(map[string]any{
				"page_id": result.PageID,
				"status":  result.Status,
				"reason":  result.Reason,
			}).Info("page processed")

			if err := o.jobs.Progress(gctx, jobID, done, skipped, failed); err != nil {
				log.WithError(err).Warn("could not update job progress")
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		detail := err.Error()
		_ = o.jobs.Finish(ctx, jobID, store.JobFailed, &detail)
		return summary, err
	}

	if err := o.jobs.Finish(ctx, jobID, store.JobFinished, nil); err != nil {
		log.WithError(err).Warn("could not finish job")
	}
	return summary, nil
}

// ProcessPage ingests one page end to end.
func (o *Orchestrator) ProcessPage(ctx context.Context, page confluence.Page) PageResult {
	result := PageResult{PageID: page.ID, Title: page.Title}

	contentHash := md5Hex(page.Content)
	if o.opts.SkipUnchanged {
		stored, err := o.checklists.ContentHash(ctx, page.ID)
		if err == nil && stored != "" && stored == contentHash {
			result.Status = StatusSkipped
			result.Reason = "content unchanged"
			return result
		}
	}

	normalized := confluence.NormalizeContent(page.Content)

	// Both extraction paths run concurrently. The LLM path degrades
	// internally, so a model failure never cancels the HTML path.
	var (
		htmlResult extract.Result
		analysis   *analyzer.Analysis
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		htmlResult = o.parser.ParseTestcases(page.Content)
		return nil
	})
	g.Go(func() error {
		if o.analyzer == nil {
			analysis = &analyzer.Analysis{FeatureName: "General", Method: "disabled"}
			return nil
		}
		analysis = o.analyzer.Analyze(gctx, page.Title, normalized)
		return nil
	})
	_ = g.Wait()

	merged := o.merger.Merge(htmlResult.Testcases, analysis.Testcases)

	if len(merged) == 0 && len(analysis.Configs) == 0 {
		result.Status = StatusSkipped
		result.Reason = "no testcases or configs"
		if htmlResult.Diagnostic != "" {
			result.Reason += ": " + htmlResult.Diagnostic
		}
		return result
	}

	if err := o.persist(ctx, page, contentHash, normalized, analysis, merged); err != nil {
		result.Status = StatusFailed
		result.Reason = err.Error()
		return result
	}

	result.Status = StatusIngested
	result.Testcases = len(merged)
	result.Chunks = len(o.chunker.Split(normalized))
	return result
}

func (o *Orchestrator) persist(ctx context.Context, page confluence.Page, contentHash, normalized string, analysis *analyzer.Analysis, merged []extract.RawTestCase) error {
	section, err := o.resolveSection(ctx, page)
	if err != nil {
		return err
	}

	description := analysis.ChecklistDescription
	if description == "" {
		description = page.Title
	}

	checklist := &store.Checklist{
		ConfluencePageID: page.ID,
		Title:            page.Title,
		Description:      &description,
		URL:              page.URL,
		SpaceKey:         page.Space,
		SectionID:        section.ID,
		ContentHash:      contentHash,
	}
	if analysis.AdditionalContent != "" {
		checklist.AdditionalContent = &analysis.AdditionalContent
	}
	if page.Version > 0 {
		v := page.Version
		checklist.Version = &v
	}
	if err := o.checklists.Upsert(ctx, checklist); err != nil {
		return err
	}

	ids, err := o.testcases.ReplaceForChecklist(ctx, page.ID, merged)
	if err != nil {
		return err
	}

	// Config references the analyzer saw outside the table still get rows
	// linked to the checklist.
	configs := store.NewConfigRepo()
	for _, name := range analysis.Configs {
		configID, err := configs.ResolveOrCreate(ctx, name)
		if err != nil {
			return err
		}
		if err := configs.LinkChecklist(ctx, page.ID, configID); err != nil {
			return err
		}
	}

	if o.vectorizer != nil {
		o.embedTestcases(ctx, ids, merged)
		if err := o.embedChunks(ctx, page.ID, normalized); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) resolveSection(ctx context.Context, page confluence.Page) (*store.Section, error) {
	section, err := o.sections.DefaultForSpace(ctx, page.Space)
	if err != nil {
		return nil, err
	}
	if section != nil {
		return section, nil
	}

	id, err := o.sections.Upsert(ctx, &store.Section{
		ConfluencePageID: "default",
		Title:            "Default Section",
		Description:      strPtr("Default section for imported checklists"),
		URL:              page.URL,
		SpaceKey:         page.Space,
	})
	if err != nil {
		return nil, err
	}
	return &store.Section{ID: id}, nil
}

func (o *Orchestrator) embedTestcases(ctx context.Context, ids []int64, merged []extract.RawTestCase) {
	log := logging.New("pipeline")

	texts := make([]string, len(merged))
	for i, tc := range merged {
		texts[i] = tc.Step + " " + tc.ExpectedResult
	}

	vectors, err := o.vectorizer.EmbedBatch(ctx, texts)
	if err != nil {
		log.WithError(err).Warn("testcase embedding batch failed")
		return
	}
	for i, vec := range vectors {
		if vec == nil || i >= len(ids) {
			continue
		}
		if err := o.testcases.UpdateEmbedding(ctx, ids[i], vec); err != nil {
			log.WithError(err).WithField("testcase_id", ids[i]).Warn("could not store embedding")
		}
	}
}

func (o *Orchestrator) embedChunks(ctx context.Context, pageID, normalized string) error {
	pieces := o.chunker.Split(normalized)
	if len(pieces) == 0 {
		return nil
	}

	vectors, err := o.vectorizer.EmbedBatch(ctx, pieces)
	if err != nil {
		return fmt.Errorf("chunk embedding: %w", err)
	}

	chunks := make([]store.Chunk, len(pieces))
	for i, piece := range pieces {
		chunks[i] = store.Chunk{Content: piece}
		if i < len(vectors) {
			chunks[i].Embedding = vectors[i]
		}
	}

	checklistID := pageID
	return o.chunks.ReplaceForPage(ctx, pageID, &checklistID, chunks)
}

func md5Hex(content string) string {
	sum := md5.Sum([]byte(content))
	return hex.EncodeToString(sum[:])
}

func strPtr(s string) *string {
	return &s
}
