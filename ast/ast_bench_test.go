package ast

import "testing"

func benchSelect() *Select {
	p := MustRow("res_partner")
	u := MustRow("res_users")
	return NewSelect(p.C("id"), p.C("name"), As("login", u.C("login"))).
		Join(LeftJoin(p, u, Eq(p.C("id"), u.C("partner_id")))).
		Where(And(Gt(p.C("id"), 5), Ne(p.C("active"), nil))).
		OrderBy(Asc(p.C("name"))).
		Limit(10)
}

func BenchmarkSelectFingerprint(b *testing.B) {
	stmt := benchSelect()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = stmt.Fingerprint()
	}
	b.ReportAllocs()
}

func BenchmarkSelectConstruction(b *testing.B) {
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = benchSelect()
	}
	b.ReportAllocs()
}

func BenchmarkSelectFromList(b *testing.B) {
	stmt := benchSelect()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = stmt.FromList()
	}
	b.ReportAllocs()
}
