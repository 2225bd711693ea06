package navtree

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSingleSectionPayload(t *testing.T) {
	m := Parse([]byte(`{"sections":{"Orders":[{"href":"/orders/list","order":1}]},"tabs":{}}`))

	wantSections := []Section{{Key: "/orders", Text: "Orders", Href: "/orders", Order: 0}}
	if diff := cmp.Diff(wantSections, m.Sections()); diff != "" {
		t.Fatalf("sections mismatch (-want +got):\n%s", diff)
	}
	wantSubs := []SubSection{{OwnerKey: "/orders", Text: "/orders/list", Href: "/orders/list", Order: 1}}
	if diff := cmp.Diff(wantSubs, m.Subs("/orders")); diff != "" {
		t.Fatalf("subs mismatch (-want +got):\n%s", diff)
	}
	if tabs := m.Tabs("/orders/list"); len(tabs) != 0 {
		t.Fatalf("expected zero tabs, got %#v", tabs)
	}
}

func TestParseMissingMapsAreEmpty(t *testing.T) {
	m := Parse([]byte(`{"sections":{"Orders":[{"text":"List","href":"/orders/list"}]}}`))
	if m.IsEmpty() {
		t.Fatal("expected a section without a tabs map")
	}
	if m.FirstTab("/orders/list") != "" {
		t.Fatal("expected no tabs")
	}
	if !Parse([]byte(`{}`)).IsEmpty() {
		t.Fatal("expected empty object to yield an empty tree")
	}
}

func TestParseMalformedYieldsEmptyTree(t *testing.T) {
	for _, payload := range []string{``, `{`, `[1,`, `{"sections":`, `{"a":1} trailing`, `nonsense`} {
		m, err := ParseBytes([]byte(payload))
		if err == nil {
			t.Fatalf("expected error for %q", payload)
		}
		if !m.IsEmpty() {
			t.Fatalf("expected empty tree for %q", payload)
		}
	}
	var nilModel *Model
	if !nilModel.IsEmpty() || nilModel.FirstSub("/x") != "" || nilModel.Links() != nil {
		t.Fatal("expected nil model to behave as empty")
	}
}

func TestSectionOrderFollowsPayloadKeyOrder(t *testing.T) {
	m := Parse([]byte(`{"menu":{
		"Zeta":[{"text":"Z","href":"/zeta/a"}],
		"Alpha":[{"text":"A","href":"/alpha/a"}],
		"Mid":[{"text":"M","href":"/mid/a"}]
	}}`))
	var got []string
	for _, s := range m.Sections() {
		got = append(got, s.Text)
	}
	if diff := cmp.Diff([]string{"Zeta", "Alpha", "Mid"}, got); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}
}

func TestSubAndTabOrderingIsStableWithDefaults(t *testing.T) {
	m := Parse([]byte(`{
		"sections":{"Orders":[
			{"text":"Default A","href":"/orders/a"},
			{"text":"Early","href":"/orders/early","order":5},
			{"text":"Default B","href":"/orders/b"},
			{"text":"Late","href":"/orders/late","order":200}
		]},
		"tabs":{"/orders/a/":[
			{"key":"x","text":"X","href":"/orders/a/x"},
			{"key":"first","text":"First","href":"/orders/a/first","order":1},
			{"key":"y","text":"Y","href":"/orders/a/y"}
		]}
	}`))

	var subs []string
	for _, s := range m.Subs("/orders") {
		subs = append(subs, s.Href)
	}
	wantSubs := []string{"/orders/early", "/orders/a", "/orders/b", "/orders/late"}
	if diff := cmp.Diff(wantSubs, subs); diff != "" {
		t.Fatalf("sub order mismatch (-want +got):\n%s", diff)
	}
	// owner path comes from the first sub-section after ordering
	if s, ok := m.Section("/orders"); !ok || s.Text != "Orders" {
		t.Fatalf("expected /orders section, got %#v", s)
	}

	var tabs []string
	for _, tab := range m.Tabs("/orders/a") {
		tabs = append(tabs, tab.Href)
	}
	wantTabs := []string{"/orders/a/first", "/orders/a/x", "/orders/a/y"}
	if diff := cmp.Diff(wantTabs, tabs); diff != "" {
		t.Fatalf("tab order mismatch (-want +got):\n%s", diff)
	}
	if got := m.Tabs("/orders/a")[1].Order; got != DefaultTabOrder {
		t.Fatalf("expected default tab order %d, got %v", DefaultTabOrder, got)
	}
}

func TestDuplicatesFirstSeenWinsAndMissingHrefDropped(t *testing.T) {
	m := Parse([]byte(`{"sections":{
		"Orders":[
			{"text":"List","href":"/orders/list"},
			{"text":"List again","href":"/orders/list"},
			{"text":"No href"}
		],
		"Orders legacy":[{"text":"Export","href":"/orders/export"}]
	}}`))
	subs := m.Subs("/orders")
	if len(subs) != 2 {
		t.Fatalf("expected merged section with two subs, got %#v", subs)
	}
	if subs[0].Text != "List" {
		t.Fatalf("expected first-seen duplicate kept, got %q", subs[0].Text)
	}
	if len(m.Sections()) != 1 || m.Sections()[0].Text != "Orders" {
		t.Fatalf("expected a single Orders section, got %#v", m.Sections())
	}
}

func TestOwnerPathFallbacks(t *testing.T) {
	cases := map[string]string{
		"/orders/list":    "/orders",
		"orders/list":     "/orders",
		"//orders":        "/orders",
		"/":               "/",
		"":                "/",
		"/reports?tab=1":  "/reports",
		"  /audit/log  ":  "/audit",
		"/billing#anchor": "/billing",
	}
	for in, want := range cases {
		if got := OwnerPath(in); got != want {
			t.Fatalf("OwnerPath(%q): expected %q, got %q", in, want, got)
		}
	}
	m := Parse([]byte(`{"sections":{"Empty":[]}}`))
	if s := m.Sections(); len(s) != 1 || s[0].Href != "/" {
		t.Fatalf("expected section without subs to own /, got %#v", s)
	}
}

func TestHiddenEntriesAreDropped(t *testing.T) {
	m := Parse([]byte(`{"sections":{"Orders":[
		{"text":"List","href":"/orders/list"},
		{"text":"Secret","href":"/orders/secret","hidden":true},
		{"text":"Off","href":"/orders/off","visible":false}
	]}}`))
	if got := len(m.Subs("/orders")); got != 1 {
		t.Fatalf("expected one visible sub, got %d", got)
	}
}

func TestFlatShape(t *testing.T) {
	m := Parse([]byte(`{
		"l1":[{"key":"ops","text":"Operations","order":2},{"key":"fin","text":"Finance","order":1},{"key":"gone","text":"Gone","hidden":true}],
		"l2":[
			{"ownerKey":"ops","text":"Jobs","href":"/ops/jobs"},
			{"owner":"fin","text":"Invoices","href":"/finance/invoices"},
			{"ownerKey":"gone","text":"Orphan","href":"/gone/x"}
		],
		"tabs":[{"ownerHref":"/ops/jobs","key":"running","text":"Running","href":"/ops/jobs/running"}]
	}`))
	sections := m.Sections()
	if len(sections) != 2 {
		t.Fatalf("expected two sections, got %#v", sections)
	}
	if sections[0].Href != "/finance" || sections[1].Href != "/ops" {
		t.Fatalf("expected sections ordered by explicit order, got %#v", sections)
	}
	if m.FirstTab("/ops/jobs") != "/ops/jobs/running" {
		t.Fatalf("expected running tab, got %q", m.FirstTab("/ops/jobs"))
	}
}

func TestNestedShapeWithChildrenAsTabs(t *testing.T) {
	m := Parse([]byte(`{"items":[
		{"title":"Reports","path":"/reports","children":[
			{"title":"Daily","path":"/reports/daily","children":[
				{"title":"Summary","path":"/reports/daily/summary"},
				{"title":"Raw","path":"/reports/daily/raw","order":1}
			]}
		]}
	]}`))
	if m.FirstSub("/reports") != "/reports/daily" {
		t.Fatalf("expected daily sub, got %q", m.FirstSub("/reports"))
	}
	if m.FirstTab("/reports/daily") != "/reports/daily/raw" {
		t.Fatalf("expected ordered tabs from children, got %q", m.FirstTab("/reports/daily"))
	}

	arr := Parse([]byte(`[{"title":"Ops","children":[{"title":"Jobs","href":"/ops/jobs"}]}]`))
	if arr.FirstSection() != "/ops" {
		t.Fatalf("expected top-level array accepted, got %q", arr.FirstSection())
	}
}

func TestLocate(t *testing.T) {
	m := Parse([]byte(`{"sections":{"Orders":[{"href":"/orders/list"},{"href":"/orders/export"}]},
		"tabs":{"/orders/export":[{"key":"csv","href":"/orders/export/csv"},{"key":"pdf","href":"/orders/export/pdf"}]}}`))

	cases := map[string]Location{
		"/orders":            {Section: "/orders", Sub: "/orders/list"},
		"/orders/export":     {Section: "/orders", Sub: "/orders/export", Tab: "/orders/export/csv"},
		"/orders/export/pdf": {Section: "/orders", Sub: "/orders/export", Tab: "/orders/export/pdf"},
	}
	for href, want := range cases {
		got, ok := m.Locate(href)
		if !ok {
			t.Fatalf("expected %q to resolve", href)
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Locate(%q) mismatch (-want +got):\n%s", href, diff)
		}
	}
	if _, ok := m.Locate("/missing"); ok {
		t.Fatal("expected unknown href to fail")
	}
}

func TestLinksAreDepthFirst(t *testing.T) {
	m := Parse([]byte(`{"items":[
		{"title":"Reports","path":"/reports","children":[
			{"title":"Daily","path":"/reports/daily","children":[{"title":"Raw","path":"/reports/daily/raw"}]},
			{"title":"Hidden","path":"/reports/hidden","hidden":true,"children":[{"title":"Inner","path":"/reports/hidden/inner"}]}
		]},
		{"title":"Audit","path":"/audit"}
	]}`))
	want := []Link{
		{Text: "Reports", Href: "/reports", Depth: 0},
		{Text: "Daily", Href: "/reports/daily", Depth: 1},
		{Text: "Raw", Href: "/reports/daily/raw", Depth: 2},
		{Text: "Audit", Href: "/audit", Depth: 0},
	}
	if diff := cmp.Diff(want, m.Links()); diff != "" {
		t.Fatalf("links mismatch (-want +got):\n%s", diff)
	}
}
