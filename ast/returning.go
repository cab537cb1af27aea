package ast

import "github.com/Konsultn-Engineering/qbuild/utils"

// returning converts RETURNING items; a row means every column.
func returning(items []any) []Node {
	if len(items) == 0 {
		return nil
	}
	return toNodes(items)
}

func hashNodes(h *utils.Hasher, tag string, nodes []Node) {
	h.Str(tag)
	for _, n := range nodes {
		h.U64(n.Fingerprint())
	}
}
