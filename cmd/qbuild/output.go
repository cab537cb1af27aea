package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"sigs.k8s.io/yaml"
)

// printer writes command output, colored when the terminal allows it.
type printer struct {
	w     io.Writer
	label *color.Color
	sql   *color.Color
	dim   *color.Color
}

func newPrinter(w io.Writer) *printer {
	return &printer{
		w:     w,
		label: color.New(color.FgCyan, color.Bold),
		sql:   color.New(color.FgGreen),
		dim:   color.New(color.Faint),
	}
}

func (p *printer) statement(sql string) {
	p.label.Fprint(p.w, "sql:")
	fmt.Fprint(p.w, " ")
	p.sql.Fprintln(p.w, sql)
}

func (p *printer) params(args []any) {
	if len(args) == 0 {
		return
	}
	p.label.Fprintln(p.w, "params:")
	for i, a := range args {
		p.dim.Fprintf(p.w, "  %d:", i+1)
		fmt.Fprintf(p.w, " %v\n", a)
	}
}

func (p *printer) field(name string, value any) {
	p.label.Fprintf(p.w, "%s:", name)
	fmt.Fprintf(p.w, " %v\n", value)
}

func (p *printer) yaml(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = p.w.Write(data)
	return err
}
