package ast

// Rows returns the row sources an expression reads from, in first-reference
// order. Sub-queries in expression position are opaque: their rows belong
// to their own FROM clause.
func Rows(n Node) []Source {
	set := newSourceSet()
	collectRows(n, set)
	return set.list()
}

func collectRows(n Node, set *sourceSet) {
	switch x := n.(type) {
	case nil:
	case *Row:
		set.add(x)
	case *Unnest:
		set.add(x)
	case *Column:
		set.add(x.Source)
	case *UnaryExpr:
		collectRows(x.Operand, set)
	case *BinaryExpr:
		collectRows(x.Left, set)
		collectRows(x.Right, set)
	case *Func:
		for _, arg := range x.Args {
			collectRows(arg, set)
		}
	case *Case:
		if x.Switch != nil {
			collectRows(x.Switch, set)
		}
		for _, w := range x.Whens {
			collectRows(w.Cond, set)
			collectRows(w.Result, set)
		}
		if x.Else != nil {
			collectRows(x.Else, set)
		}
	case *InList:
		collectRows(x.Expr, set)
	case *InSelect:
		collectRows(x.Expr, set)
	case *Fragment:
		for _, p := range x.Parts {
			collectRows(p, set)
		}
	case *Order:
		collectRows(x.Expr, set)
	}
}

// sourceSet is an insertion-ordered set of sources keyed by identity.
type sourceSet struct {
	seen  map[uint64]struct{}
	items []Source
}

func newSourceSet() *sourceSet {
	return &sourceSet{seen: make(map[uint64]struct{})}
}

func (s *sourceSet) add(sources ...Source) {
	for _, src := range sources {
		if src == nil {
			continue
		}
		if _, ok := s.seen[src.Identity()]; ok {
			continue
		}
		s.seen[src.Identity()] = struct{}{}
		s.items = append(s.items, src)
	}
}

func (s *sourceSet) remove(src Source) {
	if src == nil {
		return
	}
	if _, ok := s.seen[src.Identity()]; !ok {
		return
	}
	delete(s.seen, src.Identity())
	out := s.items[:0]
	for _, it := range s.items {
		if it.Identity() != src.Identity() {
			out = append(out, it)
		}
	}
	s.items = out
}

func (s *sourceSet) list() []Source {
	return s.items
}
