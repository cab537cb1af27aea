package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/qbuild/cache"
	"github.com/Konsultn-Engineering/qbuild/connector"
	"github.com/Konsultn-Engineering/qbuild/database"
	"github.com/Konsultn-Engineering/qbuild/document"
	"github.com/Konsultn-Engineering/qbuild/internal/debug"
	"github.com/Konsultn-Engineering/qbuild/visitor"
)

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exec <document>",
		Short: "Run a query document against the configured database",
		Long: `Run a YAML query document. Selects and statements with a returning
list print their rows as YAML; other statements print the number of
affected rows.`,
		Example: `  QBUILD_DATABASE_DRIVER=sqlite3 QBUILD_DATABASE_PATH=app.db qbuild exec partners.yaml`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd.Context(), rootOpts, args[0], cmd)
		},
	}
}

func runExec(ctx context.Context, opts *RootOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	doc, stmt, err := opts.buildDocument(cfg, path)
	if err != nil {
		return err
	}

	conn, err := connector.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	var compileOpts []visitor.Option
	if cfg.Cache.Size > 0 {
		compileOpts = append(compileOpts, visitor.WithCache(cache.NewQueryCache(cfg.Cache.Size)))
	}
	exec := database.NewExecutor(conn.Database(), compileOpts...)
	out := newPrinter(cmd.OutOrStdout())

	if doc.Kind == document.KindSelect || len(doc.Returning) > 0 {
		rows, err := exec.QueryMaps(ctx, stmt)
		if err != nil {
			return err
		}
		debug.Debug("rows fetched", "count", len(rows))
		if len(rows) == 0 {
			out.field("rows", 0)
			return nil
		}
		return out.yaml(rows)
	}

	res, err := exec.Exec(ctx, stmt)
	if err != nil {
		return err
	}
	out.field("exec_id", res.ID)
	out.field("rows_affected", res.RowsAffected)
	return nil
}
