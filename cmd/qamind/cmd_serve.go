package main

import (
	"github.com/spf13/cobra"

	"qamind/pkg/core/logging"
	"qamind/pkg/core/store"
	"qamind/pkg/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP query tools over stdio",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if err := store.InitDB(ctx); err != nil {
		return err
	}
	defer store.Close()
	if err := store.Migrate(ctx); err != nil {
		return err
	}

	embedder, err := buildEmbedder(ctx)
	if err != nil {
		return err
	}

	var srv *mcp.Server
	if embedder != nil {
		defer embedder.Close()
		srv = mcp.NewServer(embedder, settings.MinSimilarity)
	} else {
		srv = mcp.NewServer(nil, settings.MinSimilarity)
	}

	logging.New("mcp").Info("starting qamind MCP server over stdio")
	return srv.Run(ctx)
}
