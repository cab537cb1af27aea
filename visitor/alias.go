package visitor

import "github.com/Konsultn-Engineering/qbuild/ast"

// arena assigns aliases a..z, aa, ab, ... to sources in the order they are
// first rendered. One arena lives for one statement scope.
type arena struct {
	aliases map[uint64]string
	pinned  map[uint64]string
	next    int
}

func newArena() *arena {
	return &arena{aliases: make(map[uint64]string, 8)}
}

func (a *arena) alias(src ast.Source) string {
	id := src.Identity()
	if name, ok := a.pinned[id]; ok {
		return name
	}
	if name, ok := a.aliases[id]; ok {
		return name
	}
	name := aliasName(a.next)
	a.next++
	a.aliases[id] = name
	return name
}

// pin forces src to render as name, overriding any assigned alias.
func (a *arena) pin(src ast.Source, name string) {
	if a.pinned == nil {
		a.pinned = make(map[uint64]string, 1)
	}
	a.pinned[src.Identity()] = name
}

// aliasName is the bijective base-26 spelling of n: 0 is a, 25 is z,
// 26 is aa.
func aliasName(n int) string {
	var buf [8]byte
	i := len(buf)
	for n++; n > 0; n /= 26 {
		n--
		i--
		buf[i] = byte('a' + n%26)
	}
	return string(buf[i:])
}
