package ast

import (
	"reflect"

	"github.com/Konsultn-Engineering/qbuild/utils"
)

// Tuple is a literal sequence bound as a single parameter, used by IN.
type Tuple []any

func (t Tuple) TupleValues() []any { return []any(t) }

// spread flattens a single slice argument so In(x, []int{1, 2}) and
// In(x, 1, 2) build the same tuple. Strings and byte slices stay scalar.
func spread(values []any) Tuple {
	if len(values) == 1 {
		switch values[0].(type) {
		case string, []byte:
		case Tuple:
			return append(Tuple(nil), values[0].(Tuple)...)
		default:
			rv := reflect.ValueOf(values[0])
			if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
				out := make(Tuple, rv.Len())
				for i := range out {
					out[i] = rv.Index(i).Interface()
				}
				return out
			}
		}
	}
	return append(Tuple(nil), values...)
}

func (t Tuple) fingerprint() uint64 {
	h := utils.NewHasher("tuple")
	for _, v := range t {
		h.U64(utils.FingerprintValue(v))
	}
	return h.Sum()
}
