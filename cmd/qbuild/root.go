package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Konsultn-Engineering/qbuild/ast"
	"github.com/Konsultn-Engineering/qbuild/config"
	"github.com/Konsultn-Engineering/qbuild/document"
	"github.com/Konsultn-Engineering/qbuild/internal/debug"
)

// RootOptions holds flags shared by every command.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	Params     []string

	logOut io.Writer
}

// NewRootCommand creates the qbuild command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "qbuild",
		Short:         "Compile and run relational query documents",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.logOut = cmd.ErrOrStderr()
			debug.SetOutput(opts.logOut, opts.Verbose)
		},
	}

	f := cmd.PersistentFlags()
	f.StringVarP(&opts.ConfigPath, "config", "c", "", "config file (default: ./qbuild.yaml if present)")
	f.BoolVarP(&opts.Verbose, "verbose", "v", false, "log compiled statements to stderr")
	f.StringArrayVarP(&opts.Params, "param", "p", nil, "document parameter as name=value (repeatable)")

	cmd.AddCommand(
		NewCompileCommand(opts),
		NewExecCommand(opts),
		NewConfigCommand(opts),
	)
	return cmd
}

func (o *RootOptions) loadConfig() (*config.Config, error) {
	cfg, path, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cfg.Debug && !o.Verbose {
		o.Verbose = true
		debug.SetOutput(o.logOut, true)
	}
	debug.Debug("config loaded", "path", path, "driver", cfg.Database.Driver)
	return cfg, nil
}

// params parses the --param flags. Values are read as YAML; text that is
// not valid YAML is kept as a string.
func (o *RootOptions) params() (map[string]any, error) {
	out := make(map[string]any, len(o.Params))
	for _, p := range o.Params {
		name, text, ok := strings.Cut(p, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid param %q: want name=value", p)
		}
		v, err := document.ParseValue(text)
		if err != nil {
			v = text
		}
		out[name] = v
	}
	return out, nil
}

// buildDocument loads the document at path and builds its statement with
// the configured table naming.
func (o *RootOptions) buildDocument(cfg *config.Config, path string) (*document.Document, ast.Statement, error) {
	doc, err := document.ParseFile(path)
	if err != nil {
		return nil, nil, err
	}
	naming, err := cfg.TableNaming()
	if err != nil {
		return nil, nil, err
	}
	params, err := o.params()
	if err != nil {
		return nil, nil, err
	}
	stmt, err := document.Builder{Naming: naming}.Build(doc, params)
	if err != nil {
		return nil, nil, err
	}
	return doc, stmt, nil
}
