package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"qamind/pkg/core/extract"
	"qamind/pkg/core/logging"
	"qamind/pkg/core/pipeline"
	"qamind/pkg/core/store"
)

var (
	loadPages    []string
	loadChildren bool
	loadForce    bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Ingest Confluence checklist pages into the knowledge base",
	RunE:  runLoad,
}

func init() {
	loadCmd.Flags().StringSliceVar(&loadPages, "pages", nil, "Confluence page ids to ingest (comma-separated)")
	loadCmd.Flags().BoolVar(&loadChildren, "children", true, "Also ingest child pages")
	loadCmd.Flags().BoolVar(&loadForce, "force", false, "Re-ingest pages even when content is unchanged")
}

func runLoad(cmd *cobra.Command, _ []string) error {
	log := logging.New("load")
	ctx := cmd.Context()

	if len(loadPages) == 0 {
		return fmt.Errorf("--pages is required")
	}

	if err := store.InitDB(ctx); err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	api, err := buildConfluenceAPI()
	if err != nil {
		return err
	}
	an, err := buildAnalyzer()
	if err != nil {
		return err
	}
	embedder, err := buildEmbedder(ctx)
	if err != nil {
		return err
	}

	pages, err := api.GetPagesByIDs(ctx, loadPages, loadChildren)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no pages found for ids %s", strings.Join(loadPages, ", "))
	}
	log.WithField("pages", len(pages)).Info("fetched pages")

	keywords, err := loadKeywords()
	if err != nil {
		return err
	}
	opts := pipeline.Options{
		Concurrency:   settings.Concurrency,
		SkipUnchanged: settings.SkipUnchanged && !loadForce,
		Merge:         extract.MergeOptions{PrimaryThreshold: settings.MergeThreshold},
		Keywords:      keywords,
		ChunkSize:     settings.ChunkSize,
		ChunkOverlap:  settings.ChunkOverlap,
	}

	var orch *pipeline.Orchestrator
	if embedder != nil {
		defer embedder.Close()
		orch = pipeline.New(api, an, embedder, opts)
	} else {
		orch = pipeline.New(api, an, nil, opts)
	}

	summary, err := orch.Run(ctx, pages)
	if err != nil {
		return err
	}

	log.WithFields(map[string]any{
		"job_id":   summary.JobID,
		"ingested": summary.Done,
		"skipped":  summary.Skipped,
		"failed":   summary.Failed,
	}).Info("ingestion finished")

	for _, page := range summary.Pages {
		if page.Status != pipeline.StatusIngested {
			fmt.Printf("  %-12s %s: %s\n", page.Status, page.Title, page.Reason)
			continue
		}
		fmt.Printf("  %-12s %s: %d testcases, %d chunks\n", page.Status, page.Title, page.Testcases, page.Chunks)
	}
	return nil
}
