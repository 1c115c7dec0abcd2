package flatten

import (
	"testing"

	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
	"github.com/cicd-ai-toolkit/notepack/pkg/jsonvalue"
	"github.com/cicd-ai-toolkit/notepack/pkg/source"
)

func mustParse(t *testing.T, s string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	if err != nil {
		t.Fatalf("Parse(%s): %v", s, err)
	}
	return v
}

func payload(t *testing.T, details string) source.Payload {
	t.Helper()
	return source.Payload{SourceName: "whois", Details: mustParse(t, details)}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		json string
		want Kind
	}{
		{"null", `null`, Ignorable},
		{"empty array", `[]`, Ignorable},
		{"array of blanks", `["", null, "  "]`, Ignorable},
		{"blank string", `"   "`, Ignorable},
		{"short hex color", `"#fff"`, Ignorable},
		{"long hex color", `"#A0b1C2"`, Ignorable},
		{"image data uri", `"data:image/png;base64,iVBORw0KGgo="`, Ignorable},
		{"string", `"example.com"`, Primitive},
		{"hex-like but not a color", `"#abcd"`, Primitive},
		{"number", `443`, Primitive},
		{"bool", `false`, Primitive},
		{"primitive array", `["x", 1, true, null]`, PrimitiveArray},
		{"flat object", `{"a": 1, "b": ["x"], "c": null}`, FlatObject},
		{"single member object", `{"c": 2}`, Nested},
		{"object with nested object", `{"a": 1, "b": {"c": 2}}`, Nested},
		{"array of objects", `[{"a": 1}]`, Nested},
		{"array of arrays", `[[1], [2]]`, Nested},
		{"empty object", `{}`, Nested},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(mustParse(t, tt.json)); got != tt.want {
				t.Errorf("Classify(%s) = %v, want %v", tt.json, got, tt.want)
			}
		})
	}
}

func TestClassifyIsStableAcrossRoundTrip(t *testing.T) {
	docs := []string{
		`{"a":1,"b":{"c":2}}`,
		`{"tags":["x","y",""]}`,
		`[{"ip":"1.2.3.4","ports":[80,443]},{"ip":"5.6.7.8","ports":[]}]`,
		`"#123456"`,
		`{"x":null,"y":[]}`,
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			v := mustParse(t, doc)
			data, err := v.MarshalJSON()
			if err != nil {
				t.Fatalf("MarshalJSON: %v", err)
			}
			again := mustParse(t, string(data))
			if Classify(again) != Classify(v) {
				t.Errorf("class changed: %v -> %v", Classify(v), Classify(again))
			}
		})
	}
}

func TestCosts(t *testing.T) {
	if got := PrimitiveCost("a.b", "hello"); got != 8 {
		t.Errorf("PrimitiveCost = %d, want 8", got)
	}
	if got := PrimitiveCost("ключ", "значение"); got != 12 {
		t.Errorf("PrimitiveCost counts code points, got %d", got)
	}

	arr := mustParse(t, `["x","y",""]`)
	if got := JoinPrimitives(arr); got != "x, y" {
		t.Errorf("JoinPrimitives = %q", got)
	}
	if got := ArrayCost("tags", arr); got != 8 {
		t.Errorf("ArrayCost = %d, want 8", got)
	}

	rows := ObjectRows(mustParse(t, `{"asn":"AS15169","empty":"","ports":[80,443]}`))
	want := []Row{{"asn", "AS15169"}, {"ports", "80, 443"}}
	if len(rows) != len(want) {
		t.Fatalf("ObjectRows = %v", rows)
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
	// (7+3+3) + (7+5+3)
	if got := ObjectCost(rows); got != 28 {
		t.Errorf("ObjectCost = %d, want 28", got)
	}
}

func TestFlattenScenarios(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		want  []FlatEntry
		total int
	}{
		{
			name: "nested single member descends",
			json: `{"a":1,"b":{"c":2}}`,
			want: []FlatEntry{
				{Path: "a", Kind: Primitive, Value: "1", Cost: 2},
				{Path: "b.c", Kind: Primitive, Value: "2", Cost: 4},
			},
			total: 6,
		},
		{
			name: "primitive array drops blanks",
			json: `{"tags":["x","y",""]}`,
			want: []FlatEntry{
				{Path: "tags", Kind: PrimitiveArray, Value: "x, y", Cost: 8},
			},
			total: 8,
		},
		{
			name: "single element array is unwrapped",
			json: `{"hits":[{"name":"a","score":1}]}`,
			want: []FlatEntry{
				{Path: "hits", Kind: FlatObject, Rows: []Row{{"name", "a"}, {"score", "1"}}, Cost: 17},
			},
			total: 17,
		},
		{
			name: "multi element array is indexed",
			json: `{"hits":[{"x":{"y":1}},{"x":{"y":2}}]}`,
			want: []FlatEntry{
				{Path: "hits.0.x.y", Kind: Primitive, Value: "1", Cost: 11},
				{Path: "hits.1.x.y", Kind: Primitive, Value: "2", Cost: 11},
			},
			total: 22,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, err := Flatten(payload(t, tt.json), 60000)
			if err != nil {
				t.Fatalf("Flatten: %v", err)
			}
			assertEntries(t, item.Entries, tt.want)
			if item.TotalCost != tt.total {
				t.Errorf("TotalCost = %d, want %d", item.TotalCost, tt.total)
			}
			if item.IsTruncated {
				t.Error("unexpected truncation")
			}
			if item.SourceName != "whois" {
				t.Errorf("SourceName = %q", item.SourceName)
			}
		})
	}
}

func TestFlattenNoData(t *testing.T) {
	for _, doc := range []string{`{"x": null, "y": []}`, `null`, `{}`, `[{"a": null}]`} {
		t.Run(doc, func(t *testing.T) {
			item, err := Flatten(payload(t, doc), 100)
			if err != nil {
				t.Fatalf("Flatten: %v", err)
			}
			if len(item.Entries) != 1 || !item.Entries[0].Placeholder {
				t.Fatalf("Entries = %+v, want one placeholder", item.Entries)
			}
			if item.Entries[0].Value != NoDataText || item.TotalCost != NoDataCost {
				t.Errorf("placeholder = %+v, total %d", item.Entries[0], item.TotalCost)
			}
		})
	}
}

func TestFlattenTruncation(t *testing.T) {
	// n holds an object, so the root is nested and every primitive is
	// costed on its own. costs: a=1+10, b=1+30, c=1+2, n.x.y=5+1
	doc := `{"a":"0123456789","b":"012345678901234567890123456789","c":"xy","n":{"x":{"y":1}}}`

	item, err := Flatten(payload(t, doc), 20)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if !item.IsTruncated {
		t.Error("expected truncation")
	}
	// b is refused; the walk continues and the cheaper c and n.x.y still fit.
	want := []FlatEntry{
		{Path: "a", Kind: Primitive, Value: "0123456789", Cost: 11},
		{Path: "c", Kind: Primitive, Value: "xy", Cost: 3},
		{Path: "n.x.y", Kind: Primitive, Value: "1", Cost: 6},
	}
	assertEntries(t, item.Entries, want)
	if item.TotalCost != 20 {
		t.Errorf("TotalCost = %d, want 20", item.TotalCost)
	}

	exact, err := Flatten(payload(t, doc), 51)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if exact.IsTruncated || exact.TotalCost != 51 || len(exact.Entries) != 4 {
		t.Errorf("budget equal to total cost: truncated=%v total=%d entries=%d",
			exact.IsTruncated, exact.TotalCost, len(exact.Entries))
	}
}

func TestFlattenDropsOversizedFlatObject(t *testing.T) {
	// big is a flat object costing (10+2+3)*2 = 30; s costs 1+1.
	doc := `{"big":{"k1":"aaaaaaaaaa","k2":"bbbbbbbbbb"},"s":"x"}`

	item, err := Flatten(payload(t, doc), 10)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if !item.IsTruncated {
		t.Error("expected truncation")
	}
	assertEntries(t, item.Entries, []FlatEntry{
		{Path: "s", Kind: Primitive, Value: "x", Cost: 2},
	})
	if item.TotalCost != 2 {
		t.Errorf("TotalCost = %d, want 2", item.TotalCost)
	}

	whole, err := Flatten(payload(t, doc), 32)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if whole.IsTruncated || len(whole.Entries) != 2 || whole.Entries[0].Kind != FlatObject || len(whole.Entries[0].Rows) != 2 {
		t.Errorf("entries = %+v", whole.Entries)
	}
}

func TestFlattenBudgetMonotonicity(t *testing.T) {
	p := payload(t, `{
		"network": {"asn": "AS13335", "org": "Cloudflare", "ranges": ["1.1.1.0/24", "1.0.0.0/24"]},
		"resolutions": [{"host": "one.one.one.one", "seen": "2024-01-01"}, {"host": "cloudflare-dns.com", "seen": "2024-02-01"}],
		"score": 12,
		"labels": ["dns", "anycast", "cdn"]
	}`)

	prevTruncated := false
	for budget := 400; budget >= 1; budget-- {
		item, err := Flatten(p, budget)
		if err != nil {
			t.Fatalf("Flatten(%d): %v", budget, err)
		}
		if !item.Entries[0].Placeholder && item.TotalCost > budget {
			t.Fatalf("budget %d: TotalCost %d over budget", budget, item.TotalCost)
		}
		if prevTruncated && !item.IsTruncated {
			t.Fatalf("budget %d: truncation flag went back to false", budget)
		}
		prevTruncated = item.IsTruncated
	}
	if !prevTruncated {
		t.Error("budget 1 should truncate")
	}
}

func TestFlattenRejectsBadBudget(t *testing.T) {
	for _, budget := range []int{0, -5} {
		_, err := Flatten(payload(t, `{"a":1}`), budget)
		if !errors.IsType(err, errors.ErrConfig) {
			t.Errorf("Flatten(budget=%d) err = %v, want config error", budget, err)
		}
	}
}

func TestFlattenFallbackLabel(t *testing.T) {
	item, err := Flatten(source.Payload{Details: jsonvalue.Int(1)}, 10)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if item.SourceName != source.FallbackSourceName {
		t.Errorf("SourceName = %q", item.SourceName)
	}
}

func TestFlattenDoesNotAliasTags(t *testing.T) {
	p := payload(t, `{"a":1}`)
	p.SummaryTags = []string{"malicious"}
	item, _ := Flatten(p, 10)
	p.SummaryTags[0] = "changed"
	if item.SummaryTags[0] != "malicious" {
		t.Error("SourceItem shares tag storage with the payload")
	}
}

func assertEntries(t *testing.T, got, want []FlatEntry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d entries %+v, want %d", len(got), got, len(want))
	}
	for i := range want {
		g, w := got[i], want[i]
		if g.Path != w.Path || g.Kind != w.Kind || g.Value != w.Value || g.Cost != w.Cost || g.Placeholder != w.Placeholder {
			t.Errorf("entry %d = %+v, want %+v", i, g, w)
		}
		if len(g.Rows) != len(w.Rows) {
			t.Errorf("entry %d rows = %v, want %v", i, g.Rows, w.Rows)
			continue
		}
		for j := range w.Rows {
			if g.Rows[j] != w.Rows[j] {
				t.Errorf("entry %d row %d = %v, want %v", i, j, g.Rows[j], w.Rows[j])
			}
		}
	}
}
