package visitor

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/qbuild/ast"
)

func assertGolden(t *testing.T, name string, n ast.Node, wantArgs ...any) {
	t.Helper()
	sql, args := build(t, n)
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(sql+"\n"))
	assert.Equal(t, wantArgs, args)
}

func TestInsertFromUnnest(t *testing.T) {
	p := ast.MustRow("res_partner")
	g := ast.MustRow("res_groups")

	left := ast.NewSelect(ast.NewUnnest(ast.Tuple{1, 2, 3}), ast.NewUnnest(ast.Tuple{5, 6, 7}))
	right := ast.NewSelect(p.C("id1"), p.C("id2")).Where(ast.MustIn(p.C("id1"), 1, 5, 4))
	ins := ast.MustInsert(g, "id1", "id2").Values(left.Except(right))

	assertGolden(t, "rwc_insert_from_unnest", ins, ast.Tuple{1, 2, 3}, ast.Tuple{5, 6, 7}, ast.Tuple{1, 5, 4})
}

func TestParentStore(t *testing.T) {
	t.Run("compute", func(t *testing.T) {
		r := ast.MustRow("dummy")
		c := ast.MustRow("__parent_store_compute")

		roots := ast.NewSelect(r.C("id"), ast.Concat(r.C("id"), "/")).Where(ast.Eq(r.C("parent_id"), nil))
		children := ast.NewSelect(r.C("id"), ast.Concat(c.C("parent_path"), r.C("id"), "/")).
			Where(ast.Eq(r.C("parent_id"), c.C("id")))
		upd := ast.MustUpdate(ast.Set(r.C("parent_path"), c.C("parent_path"))).Where(ast.Eq(r.C("id"), c.C("id")))
		w := ast.MustWith(upd, ast.MustBind(c, roots.Union(children), "id", "parent_path")).Recursive(true)

		assertGolden(t, "rwc_parent_store_compute", w, "/", "/")
	})

	t.Run("create", func(t *testing.T) {
		r := ast.MustRow("dummy")
		parent := ast.NewSelect(r.C("parent_path")).Where(ast.Eq(r.C("id"), 5))
		upd := ast.MustUpdate(ast.Set(r.C("parent_path"), ast.Concat(parent, r.C("id"), "/"))).
			Where(ast.MustIn(r.C("id"), 1, 5, 7, 8))

		assertGolden(t, "rwc_parent_store_create", upd, 5, "/", ast.Tuple{1, 5, 7, 8})
	})

	t.Run("update", func(t *testing.T) {
		child := ast.MustRow("child")
		node := ast.MustRow("node")

		start := ast.Add(ast.Sub(ast.Length(node.C("parent_path")), ast.Length(node.C("id"))), 1)
		upd := ast.MustUpdate(ast.Set(child.C("parent_path"),
			ast.Concat("prefix", ast.Substr(child.C("parent_path"), start)))).
			Where(ast.And(
				ast.MustIn(node.C("id"), 1, 3, 4),
				ast.Like(child.C("parent_path"), ast.Concat(node.C("parent_path"), "%%")),
			)).
			Returning(child.C("id"))

		assertGolden(t, "rwc_parent_store_update", upd, "prefix", 1, ast.Tuple{1, 3, 4}, "%%")
	})
}

type invoiceReport struct {
	invoiceType *ast.Select
	lines       *ast.Select
	rates       *ast.Select
	report      *ast.Select
	currency    *ast.Row
}

func newInvoiceReport(t *testing.T) invoiceReport {
	t.Helper()
	ail := ast.MustRow("account_invoice_line")
	ai := ast.MustRow("account_invoice")
	partner := ast.MustRow("res_partner")
	pr := ast.MustRow("product_product")
	pt := ast.MustRow("product_template")
	uom := ast.MustRow("uom_uom")
	uom2 := ast.MustRow("uom_uom")

	it := ast.NewSelect(ai.C("id"), ast.As("sign", ast.NewCase(
		ast.When(ast.Eq(ai.C("type"), ast.Any([]string{"in_refund", "in_invoice"})), -1),
	).Otherwise(1)))

	lineCount := ast.NewSelect(ast.Count(ail)).Where(ast.Eq(ail.C("invoice_id"), ai.C("id")))
	assertSQL(t, lineCount,
		`SELECT count(*) FROM "account_invoice_line" "a", "account_invoice" "b" WHERE ("a"."invoice_id" = "b"."id")`)

	qty := ast.Mul(ast.Div(ail.C("quantity"), uom.C("factor")), uom2.C("factor"))
	lines := ast.NewSelect(
		ast.As("id", ail.C("id")),
		ast.As("date", ai.C("date")),
		ast.As("uom_name", uom2.C("name")),
		ast.As("nbr", 1),
		ast.As("account_line_id", ail.C("account_id")),
		ast.As("product_qty", ast.Sum(ast.Mul(ast.Div(ast.Mul(it.C("sign"), ail.C("quantity")), uom.C("factor")), uom2.C("factor")))),
		ast.As("price_total", ast.Sum(ast.Mul(ail.C("price_subtotal_signed"), it.C("sign")))),
		ast.As("price_average", ast.Div(
			ast.Sum(ast.Abs(ail.C("price_subtotal_signed"))),
			ast.NewCase(ast.When(ast.Ne(ast.Sum(qty), 0), ast.Sum(qty))).Otherwise(1),
		)),
		ast.As("residual", ast.Mul(ast.Mul(ast.Div(ai.C("residual_company_signed"), lineCount), ast.Count(ail)), it.C("sign"))),
		ast.As("commercial_partner_id", ai.C("commercial_partner_id")),
		ail.C("product_id"), ai.C("partner_id"), ai.C("payment_term_id"), ail.C("account_analytic_id"),
		ai.C("currency_id"), ai.C("journal_id"), ai.C("fiscal_position_id"), ai.C("user_id"),
		ai.C("company_id"), ai.C("type"), ai.C("state"), pt.C("categ_id"), ai.C("date_due"),
		ai.C("account_id"), ai.C("partner_bank_id"), partner.C("country_id"),
	).From(ail).Join(
		ast.InnerJoin(ai, ail, ast.Eq(ai.C("id"), ail.C("invoice_id"))),
		ast.InnerJoin(ai, partner, ast.Eq(ai.C("commercial_partner_id"), partner.C("id"))),
		ast.LeftJoin(ail, pr, ast.Eq(pr.C("id"), ail.C("product_id"))),
		ast.LeftJoin(pr, pt, ast.Eq(pt.C("id"), pr.C("product_tmpl_id"))),
		ast.LeftJoin(ail, uom, ast.Eq(uom.C("id"), ail.C("uom_id"))),
		ast.LeftJoin(pt, uom2, ast.Eq(uom2.C("id"), pt.C("uom_id"))),
		ast.InnerJoin(ai, it, ast.Eq(it.C("id"), ai.C("id"))),
	).GroupBy(
		ail.C("id"), ail.C("product_id"), ail.C("account_analytic_id"), ai.C("date_invoice"), ai.C("id"),
		ai.C("partner_id"), ai.C("payment_term_id"), uom2.C("name"), uom2.C("id"), ai.C("currency_id"), ai.C("journal_id"),
		ai.C("fiscal_position_id"), ai.C("user_id"), ai.C("company_id"), ai.C("type"), it.C("sign"), ai.C("state"),
		pt.C("categ_id"), ai.C("date_due"), ai.C("account_id"), ail.C("account_id"), ai.C("partner_bank_id"),
		ai.C("residual_company_signed"), ai.C("amount_total_company_signed"), ai.C("commercial_partner_id"),
		partner.C("country_id"),
	)

	rate := ast.MustRow("res_currency_rate")
	next := ast.MustRow("res_currency_rate")
	company := ast.MustRow("res_company")
	nextDate := ast.NewSelect(next.C("name")).Where(ast.And(
		ast.Gt(next.C("name"), rate.C("name")),
		ast.Eq(next.C("currency_id"), rate.C("currency_id")),
		ast.Or(ast.Eq(next.C("company_id"), nil), ast.Eq(next.C("company_id"), company.C("id"))),
	)).OrderBy(ast.Asc(next.C("name"))).Limit(1)

	rates := ast.NewSelect(
		rate.C("currency_id"),
		rate.C("rate"),
		ast.As("company_id", ast.Coalesce(rate.C("company_id"), company.C("id"))),
		ast.As("date_start", rate.C("name")),
		ast.As("date_end", nextDate),
	).Join(ast.InnerJoin(rate, company,
		ast.Or(ast.Eq(rate.C("company_id"), nil), ast.Eq(rate.C("company_id"), company.C("id")))))

	cr := ast.MustRow("currency_rate")
	items := []any{}
	for _, name := range []string{
		"id", "date", "product_id", "partner_id", "country_id", "account_analytic_id", "payment_term_id",
		"uom_name", "currency_id", "journal_id", "fiscal_position_id", "user_id", "company_id", "nbr", "type",
		"state", "categ_id", "date_due", "account_id", "account_line_id", "partner_bank_id", "product_qty",
	} {
		items = append(items, lines.C(name))
	}
	items = append(items,
		ast.As("price_total", lines.C("price_total")),
		ast.As("price_average", lines.C("price_average")),
		ast.As("currency_rate", ast.Coalesce(cr.C("rate"), 1)),
		ast.As("residual", lines.C("residual")),
		ast.As("commercial_partner_id", lines.C("commercial_partner_id")),
	)
	at := ast.Coalesce(lines.C("date"), ast.Now())
	report := ast.NewSelect(items...).Join(ast.LeftJoin(lines, cr, ast.And(
		ast.Eq(cr.C("currency_id"), lines.C("currency_id")),
		ast.Eq(cr.C("company_id"), lines.C("company_id")),
		ast.Le(cr.C("date_start"), at),
		ast.Or(ast.Eq(cr.C("date_end"), nil), ast.Gt(cr.C("date_end"), at)),
	)))

	return invoiceReport{invoiceType: it, lines: lines, rates: rates, report: report, currency: cr}
}

func TestInvoiceReport(t *testing.T) {
	r := newInvoiceReport(t)
	kinds := []string{"in_refund", "in_invoice"}

	assertSQL(t, r.invoiceType,
		`SELECT "a"."id", (CASE WHEN ("a"."type" = any(%s)) THEN %s ELSE %s END) AS sign FROM "account_invoice" "a"`,
		kinds, -1, 1)

	assertGolden(t, "rwc_invoice_report_lines", r.lines, 1, 0, 1, kinds, -1, 1)
	assertGolden(t, "rwc_company_rates", r.rates, 1, 0)
	assertGolden(t, "rwc_invoice_report", r.report, 1, 1, 0, 1, kinds, -1, 1)

	view, err := ast.NewCreateView("account_invoice_report", ast.MustWith(r.report, ast.MustBind(r.currency, r.rates)))
	require.NoError(t, err)
	assertGolden(t, "rwc_invoice_report_view", view.Replace(true), 1, 0, 1, 1, 0, 1, kinds, -1, 1)
}
