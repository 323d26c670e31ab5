package store

import (
	"time"

	"qamind/pkg/core/extract"
)

// Section is a root or nested grouping page ("Checklist WEB").
type Section struct {
	ID               int64
	ConfluencePageID string
	Title            string
	Description      *string
	URL              string
	SpaceKey         string
	ParentSectionID  *int64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Checklist is one functionality page with testcases.
type Checklist struct {
	ID                string // confluence page id doubles as primary key
	ConfluencePageID  string
	Title             string
	Description       *string
	AdditionalContent *string
	URL               string
	SpaceKey          string
	SectionID         int64
	Subcategory       *string
	ContentHash       string
	Version           *int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Testcase is a stored testcase row. Embedding is nil until the vector pass
// runs.
type Testcase struct {
	ID             int64
	ChecklistID    string
	Step           string
	ExpectedResult string
	Screenshot     *string
	Priority       *extract.Priority
	TestGroup      *extract.TestGroup
	Functionality  *string
	OrderIndex     int
	ConfigID       *int64
	QAAutoCoverage *string
	Embedding      []float32
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Config is a named configuration reference.
type Config struct {
	ID          int64
	Name        string
	URL         *string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Chunk is an embedded slice of normalized page content.
type Chunk struct {
	ID               int64
	ConfluencePageID string
	ChecklistID      *string
	Ordinal          int
	Content          string
	Embedding        []float32
	CreatedAt        time.Time
}

// JobStatus values for ingestion_jobs.
const (
	JobRunning  = "running"
	JobFinished = "finished"
	JobFailed   = "failed"
)

// Job tracks one ingestion run.
type Job struct {
	ID           string
	Status       string
	PagesTotal   int
	PagesDone    int
	PagesSkipped int
	PagesFailed  int
	Detail       *string
	StartedAt    time.Time
	FinishedAt   *time.Time
}

// SearchHit is a semantic search result.
type SearchHit struct {
	Testcase       Testcase
	Similarity     float64
	ChecklistTitle string
	ConfigName     *string
}

// Statistics is the aggregate view the coverage tool reports.
type Statistics struct {
	Sections   int
	Checklists int
	Testcases  int
	Configs    int

	TestGroups         map[string]int
	Priorities         map[string]int
	TopFunctionalities map[string]int
	TopChecklists      map[string]int
	AutoCovered        int
}
