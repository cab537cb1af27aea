package main

import (
	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/qbuild/dialect"
	"github.com/Konsultn-Engineering/qbuild/visitor"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Dialect string
	Inline  bool
	Rebind  bool
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <document>",
		Short: "Print the SQL a query document compiles to",
		Long: `Compile a YAML query document to SQL with %s placeholders and its
ordered params. --rebind switches to the dialect's placeholders and
--inline renders params as literals for reading.`,
		Example: `  qbuild compile partners.yaml -p pattern=%acme%
  qbuild compile partners.yaml --rebind --dialect sqlite3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Dialect, "dialect", "", "dialect for --rebind and --inline (default: configured driver)")
	f.BoolVar(&opts.Inline, "inline", false, "inline params as SQL literals")
	f.BoolVar(&opts.Rebind, "rebind", false, "use the dialect's placeholders")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	_, stmt, err := opts.buildDocument(cfg, path)
	if err != nil {
		return err
	}

	sql, args, err := visitor.Compile(stmt)
	if err != nil {
		return err
	}

	out := newPrinter(cmd.OutOrStdout())
	if !opts.Inline && !opts.Rebind {
		out.statement(sql)
		out.params(args)
		return nil
	}

	driver := opts.Dialect
	if driver == "" {
		driver = cfg.Database.Driver
	}
	d, err := dialect.ForDriver(driver)
	if err != nil {
		return err
	}

	if opts.Inline {
		inlined, err := dialect.Interpolate(d, sql, args)
		if err != nil {
			return err
		}
		out.statement(inlined)
		return nil
	}

	sql, args, err = dialect.Rebind(d, sql, args)
	if err != nil {
		return err
	}
	out.statement(sql)
	out.params(args)
	return nil
}
