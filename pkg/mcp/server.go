// Package mcp exposes the QA knowledge base to agents over the Model
// Context Protocol.
package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"qamind/pkg/core/logging"
	"qamind/pkg/core/store"
)

// Embedder vectorizes search queries. Nil falls back to substring search.
type Embedder interface {
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Server wraps the MCP SDK server around the store repositories.
type Server struct {
	MCPServer *sdkmcp.Server

	embedder      Embedder
	minSimilarity float64

	sections   *store.SectionRepo
	checklists *store.ChecklistRepo
	testcases  *store.TestcaseRepo
	chunks     *store.ChunkRepo
	stats      *store.StatsRepo
	jobs       *store.JobRepo
}

// NewServer creates the MCP server with the query tools registered.
func NewServer(embedder Embedder, minSimilarity float64) *Server {
	if minSimilarity <= 0 {
		minSimilarity = 0.5
	}
	s := &Server{
		embedder:      embedder,
		minSimilarity: minSimilarity,
		sections:      store.NewSectionRepo(),
		checklists:    store.NewChecklistRepo(),
		testcases:     store.NewTestcaseRepo(),
		chunks:        store.NewChunkRepo(),
		stats:         store.NewStatsRepo(),
		jobs:          store.NewJobRepo(),
	}
	s.registerTools()
	return s
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "qamind", Version: "dev"},
		nil,
	)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "search_testcases",
		Description: "Search testcases by meaning (embedding similarity) or by substring when embeddings are unavailable. Supports functionality, test group and priority filters.",
	}, s.handleSearchTestcases)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "list_functionalities",
		Description: "List distinct functionality labels with testcase counts, most used first.",
	}, s.handleListFunctionalities)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_checklist",
		Description: "Get a checklist page with its testcases in table order.",
	}, s.handleGetChecklist)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_checklists_for_functionality",
		Description: "List the checklist pages that cover a functionality label.",
	}, s.handleChecklistsForFunctionality)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "get_page_content",
		Description: "Get the stored normalized content of an ingested page, as ordered chunks.",
	}, s.handleGetPageContent)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "coverage_statistics",
		Description: "Aggregate QA coverage statistics: totals, priorities, test groups, top functionalities and checklists.",
	}, s.handleCoverageStatistics)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "health",
		Description: "Report database connectivity, embedder availability and the latest ingestion job.",
	}, s.handleHealth)
}

// --- Tool input/output types ---

type searchInput struct {
	Query         string `json:"query" jsonschema:"search text"`
	TopK          int    `json:"top_k,omitempty" jsonschema:"max results (default 10)"`
	Functionality string `json:"functionality,omitempty" jsonschema:"filter by functionality label"`
	TestGroup     string `json:"test_group,omitempty" jsonschema:"filter by test group (GENERAL or CUSTOM)"`
	Priority      string `json:"priority,omitempty" jsonschema:"filter by priority"`
}

type testcaseView struct {
	ID             int64   `json:"id"`
	ChecklistTitle string  `json:"checklist_title,omitempty"`
	Step           string  `json:"step"`
	ExpectedResult string  `json:"expected_result"`
	Priority       string  `json:"priority,omitempty"`
	TestGroup      string  `json:"test_group,omitempty"`
	Functionality  string  `json:"functionality,omitempty"`
	Config         string  `json:"config,omitempty"`
	QAAutoCoverage string  `json:"qa_auto_coverage,omitempty"`
	OrderIndex     int     `json:"order_index"`
	Similarity     float64 `json:"similarity,omitempty"`
}

type searchOutput struct {
	Mode    string         `json:"mode"` // "semantic" or "text"
	Results []testcaseView `json:"results"`
}

func (s *Server) handleSearchTestcases(ctx context.Context, _ *sdkmcp.CallToolRequest, input searchInput) (*sdkmcp.CallToolResult, searchOutput, error) {
	log := logging.New("mcp-search")

	if input.Query == "" {
		return nil, searchOutput{}, fmt.Errorf("query is required")
	}
	topK := input.TopK
	if topK <= 0 {
		topK = 10
	}
	filter := store.Filter{
		TestGroup:     input.TestGroup,
		Functionality: input.Functionality,
		Priority:      input.Priority,
	}

	if s.embedder != nil {
		vector, err := s.embedder.EmbedText(ctx, input.Query)
		if err == nil {
			hits, err := s.testcases.SemanticSearch(ctx, vector, filter, topK, s.minSimilarity)
			if err != nil {
				return nil, searchOutput{}, err
			}
			out := searchOutput{Mode: "semantic"}
			for _, hit := range hits {
				view := toView(hit.Testcase)
				view.ChecklistTitle = hit.ChecklistTitle
				view.Similarity = hit.Similarity
				if hit.ConfigName != nil {
					view.Config = *hit.ConfigName
				}
				out.Results = append(out.Results, view)
			}
			return nil, out, nil
		}
		log.WithError(err).Warn("query embedding failed, falling back to text search")
	}

	cases, err := s.testcases.SearchText(ctx, input.Query, filter, topK)
	if err != nil {
		return nil, searchOutput{}, err
	}
	out := searchOutput{Mode: "text"}
	for _, tc := range cases {
		out.Results = append(out.Results, toView(tc))
	}
	return nil, out, nil
}

type listFunctionalitiesInput struct {
	Limit  int `json:"limit,omitempty" jsonschema:"max labels (default 100)"`
	Offset int `json:"offset,omitempty" jsonschema:"pagination offset"`
}

type listFunctionalitiesOutput struct {
	Functionalities map[string]int `json:"functionalities"`
}

func (s *Server) handleListFunctionalities(ctx context.Context, _ *sdkmcp.CallToolRequest, input listFunctionalitiesInput) (*sdkmcp.CallToolResult, listFunctionalitiesOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = 100
	}
	labels, err := s.testcases.ListFunctionalities(ctx, limit, input.Offset)
	if err != nil {
		return nil, listFunctionalitiesOutput{}, err
	}
	return nil, listFunctionalitiesOutput{Functionalities: labels}, nil
}

type getChecklistInput struct {
	PageID string `json:"page_id" jsonschema:"Confluence page id of the checklist"`
}

type getChecklistOutput struct {
	PageID            string         `json:"page_id"`
	Title             string         `json:"title"`
	Description       string         `json:"description,omitempty"`
	AdditionalContent string         `json:"additional_content,omitempty"`
	URL               string         `json:"url"`
	Testcases         []testcaseView `json:"testcases"`
}

func (s *Server) handleGetChecklist(ctx context.Context, _ *sdkmcp.CallToolRequest, input getChecklistInput) (*sdkmcp.CallToolResult, getChecklistOutput, error) {
	if input.PageID == "" {
		return nil, getChecklistOutput{}, fmt.Errorf("page_id is required")
	}

	checklist, err := s.checklists.ByPageID(ctx, input.PageID)
	if err != nil {
		return nil, getChecklistOutput{}, err
	}
	if checklist == nil {
		return nil, getChecklistOutput{}, fmt.Errorf("checklist %s not found", input.PageID)
	}

	cases, err := s.testcases.OrderedForChecklist(ctx, checklist.ID)
	if err != nil {
		return nil, getChecklistOutput{}, err
	}

	out := getChecklistOutput{
		PageID: checklist.ConfluencePageID,
		Title:  checklist.Title,
		URL:    checklist.URL,
	}
	if checklist.Description != nil {
		out.Description = *checklist.Description
	}
	if checklist.AdditionalContent != nil {
		out.AdditionalContent = *checklist.AdditionalContent
	}
	for _, tc := range cases {
		out.Testcases = append(out.Testcases, toView(tc))
	}
	return nil, out, nil
}

type checklistsForFunctionalityInput struct {
	Functionality string `json:"functionality" jsonschema:"functionality label to look up"`
	Limit         int    `json:"limit,omitempty" jsonschema:"max checklists (default 50, cap 200)"`
}

type checklistSummary struct {
	PageID   string `json:"page_id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	SpaceKey string `json:"space_key"`
	Version  int    `json:"version,omitempty"`
	Updated  string `json:"updated_at"`
}

type checklistsForFunctionalityOutput struct {
	Functionality string             `json:"functionality"`
	Checklists    []checklistSummary `json:"checklists"`
}

func (s *Server) handleChecklistsForFunctionality(ctx context.Context, _ *sdkmcp.CallToolRequest, input checklistsForFunctionalityInput) (*sdkmcp.CallToolResult, checklistsForFunctionalityOutput, error) {
	if input.Functionality == "" {
		return nil, checklistsForFunctionalityOutput{}, fmt.Errorf("functionality is required")
	}
	limit := clampLimit(input.Limit, 50, 200)

	checklists, err := s.checklists.ListForFunctionality(ctx, input.Functionality, limit)
	if err != nil {
		return nil, checklistsForFunctionalityOutput{}, err
	}

	out := checklistsForFunctionalityOutput{Functionality: input.Functionality}
	for _, c := range checklists {
		summary := checklistSummary{
			PageID:   c.ConfluencePageID,
			Title:    c.Title,
			URL:      c.URL,
			SpaceKey: c.SpaceKey,
			Updated:  c.UpdatedAt.UTC().Format(time.RFC3339),
		}
		if c.Version != nil {
			summary.Version = *c.Version
		}
		out.Checklists = append(out.Checklists, summary)
	}
	return nil, out, nil
}

type getPageContentInput struct {
	PageID string `json:"page_id" jsonschema:"Confluence page id"`
}

type getPageContentOutput struct {
	PageID  string   `json:"page_id"`
	Content string   `json:"content"`
	Chunks  []string `json:"chunks"`
}

func (s *Server) handleGetPageContent(ctx context.Context, _ *sdkmcp.CallToolRequest, input getPageContentInput) (*sdkmcp.CallToolResult, getPageContentOutput, error) {
	if input.PageID == "" {
		return nil, getPageContentOutput{}, fmt.Errorf("page_id is required")
	}

	chunks, err := s.chunks.ForPage(ctx, input.PageID)
	if err != nil {
		return nil, getPageContentOutput{}, err
	}
	if len(chunks) == 0 {
		return nil, getPageContentOutput{}, fmt.Errorf("no stored content for page %s", input.PageID)
	}

	out := getPageContentOutput{PageID: input.PageID}
	for _, c := range chunks {
		out.Chunks = append(out.Chunks, c.Content)
	}
	out.Content = strings.Join(out.Chunks, "\n\n")
	return nil, out, nil
}

type coverageInput struct{}

type coverageOutput struct {
	Sections           int            `json:"sections"`
	Checklists         int            `json:"checklists"`
	Testcases          int            `json:"testcases"`
	Configs            int            `json:"configs"`
	AutoCovered        int            `json:"auto_covered"`
	TestGroups         map[string]int `json:"test_groups"`
	Priorities         map[string]int `json:"priorities"`
	TopFunctionalities map[string]int `json:"top_functionalities"`
	TopChecklists      map[string]int `json:"top_checklists"`
}

func (s *Server) handleCoverageStatistics(ctx context.Context, _ *sdkmcp.CallToolRequest, _ coverageInput) (*sdkmcp.CallToolResult, coverageOutput, error) {
	stats, err := s.stats.Collect(ctx)
	if err != nil {
		return nil, coverageOutput{}, err
	}
	return nil, coverageOutput{
		Sections:           stats.Sections,
		Checklists:         stats.Checklists,
		Testcases:          stats.Testcases,
		Configs:            stats.Configs,
		AutoCovered:        stats.AutoCovered,
		TestGroups:         stats.TestGroups,
		Priorities:         stats.Priorities,
		TopFunctionalities: stats.TopFunctionalities,
		TopChecklists:      stats.TopChecklists,
	}, nil
}

type healthInput struct{}

type healthOutput struct {
	Database  string `json:"database"`
	Embedder  string `json:"embedder"`
	LatestJob string `json:"latest_job,omitempty"`
	CheckedAt string `json:"checked_at"`
}

func (s *Server) handleHealth(ctx context.Context, _ *sdkmcp.CallToolRequest, _ healthInput) (*sdkmcp.CallToolResult, healthOutput, error) {
	out := healthOutput{
		Database:  "ok",
		Embedder:  "disabled",
		CheckedAt: time.Now().UTC().Format(time.RFC3339),
	}

	pool := store.GetPool()
	if pool == nil {
		out.Database = "not initialized"
	} else if err := pool.Ping(ctx); err != nil {
		out.Database = fmt.Sprintf("unreachable: %v", err)
	}

	if s.embedder != nil {
		out.Embedder = "ok"
	}

	if job, err := s.jobs.Latest(ctx); err == nil && job != nil {
		out.LatestJob = fmt.Sprintf("%s (%s, %d/%d)", job.ID, job.Status, job.PagesDone, job.PagesTotal)
	}
	return nil, out, nil
}

// clampLimit applies the tool default and upper bound to a requested limit.
func clampLimit(requested, fallback, max int) int {
	if requested <= 0 {
		return fallback
	}
	if requested > max {
		return max
	}
	return requested
}

func toView(tc store.Testcase) testcaseView {
	view := testcaseView{
		ID:             tc.ID,
		Step:           tc.Step,
		ExpectedResult: tc.ExpectedResult,
		OrderIndex:     tc.OrderIndex,
	}
	if tc.Priority != nil {
		view.Priority = string(*tc.Priority)
	}
	if tc.TestGroup != nil {
		view.TestGroup = string(*tc.TestGroup)
	}
	if tc.Functionality != nil {
		view.Functionality = *tc.Functionality
	}
	if tc.QAAutoCoverage != nil {
		view.QAAutoCoverage = *tc.QAAutoCoverage
	}
	return view
}
