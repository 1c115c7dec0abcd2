package document

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/cicd-ai-toolkit/notepack/pkg/flatten"
	"github.com/cicd-ai-toolkit/notepack/pkg/packer"
	"github.com/cicd-ai-toolkit/notepack/pkg/source"
)

func bin(names ...string) packer.Bin {
	b := packer.Bin{}
	for _, n := range names {
		b.Items = append(b.Items, flatten.SourceItem{
			SourceName: n,
			Entries:    []flatten.FlatEntry{{Path: "k", Kind: flatten.Primitive, Value: "v", Cost: 2}},
			TotalCost:  2,
		})
		b.TotalCost += 2
	}
	return b
}

func TestAssembleOrdering(t *testing.T) {
	bins := []packer.Bin{bin("b0"), bin("b1"), bin("b2")}
	entity := source.Entity{Value: "1.2.3.4", Type: source.EntityIP}

	tests := []struct {
		name    string
		comment string
	}{
		{"without comment", ""},
		{"with comment", "seen in phishing campaign"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Assemble(bins, entity, Options{Comment: tt.comment, Budget: 60000})
			if len(chunks) != 3 {
				t.Fatalf("got %d chunks", len(chunks))
			}
			wantLabels := []string{"3 of 3", "2 of 3", "1 of 3"}
			wantSources := []string{"b2", "b1", "b0"}
			for i, c := range chunks {
				if c.Label != wantLabels[i] {
					t.Errorf("chunk %d label = %q, want %q", i, c.Label, wantLabels[i])
				}
				if c.Sources[0] != wantSources[i] {
					t.Errorf("chunk %d holds %v, want %s", i, c.Sources, wantSources[i])
				}
				hasComment := c.LeadingComment != ""
				if want := tt.comment != "" && i == 2; hasComment != want {
					t.Errorf("chunk %d comment = %q", i, c.LeadingComment)
				}
				if tt.comment != "" && i != 2 && strings.Contains(c.Body.PlainText(), tt.comment) {
					t.Errorf("chunk %d body carries the comment", i)
				}
			}
			if tt.comment != "" {
				first := chunks[2].Body.Content[0]
				if first.Type != TypeParagraph || first.PlainText() != tt.comment {
					t.Errorf("comment block = %+v", first)
				}
			}
		})
	}
}

func TestAssembleBody(t *testing.T) {
	item := flatten.SourceItem{
		SourceName:  "passive-dns",
		SummaryTags: []string{"malicious", "c2"},
		IsTruncated: true,
		Entries: []flatten.FlatEntry{
			{Path: "asn", Kind: flatten.Primitive, Value: "AS64500"},
			{Path: "ports", Kind: flatten.PrimitiveArray, Value: "80, 443"},
			{Path: "geo", Kind: flatten.FlatObject, Rows: []flatten.Row{{Key: "country", Value: "NL"}, {Key: "city", Value: "Amsterdam"}}},
		},
	}
	chunks := Assemble([]packer.Bin{{Items: []flatten.SourceItem{item}}},
		source.Entity{Value: "http://evil.example.com/x", Type: source.EntityURL},
		Options{Budget: 500})

	body := chunks[0].Body
	if body.Type != TypeDoc {
		t.Fatalf("root type = %s", body.Type)
	}
	var types []string
	for _, b := range body.Content {
		types = append(types, b.Type)
	}
	want := []string{
		TypePanel, TypeHeading, // label, entity
		TypeHeading, TypeParagraph, TypePanel, // source, tags, truncation
		TypeParagraph, TypeParagraph, // asn, ports
		TypeParagraph, TypeTable, // geo
	}
	if strings.Join(types, ",") != strings.Join(want, ",") {
		t.Fatalf("block types = %v, want %v", types, want)
	}

	if got := body.Content[0].PlainText(); got != "Enrichment (1 of 1)" {
		t.Errorf("info panel = %q", got)
	}
	if got := body.Content[1].PlainText(); got != "hxxp://evil[.]example[.]com/x" {
		t.Errorf("entity heading = %q", got)
	}
	if body.Content[1].Level() != 2 || body.Content[2].Level() != 3 {
		t.Error("unexpected heading levels")
	}
	if body.Content[4].PanelType() != PanelWarning || !strings.Contains(body.Content[4].PlainText(), "500") {
		t.Errorf("truncation panel = %+v", body.Content[4])
	}
	if got := body.Content[5].PlainText(); got != "asn: AS64500" {
		t.Errorf("primitive row = %q", got)
	}
	if len(body.Content[8].Content) != 2 {
		t.Errorf("table rows = %d", len(body.Content[8].Content))
	}
}

func TestAssembleEmpty(t *testing.T) {
	if chunks := Assemble(nil, source.Entity{Value: "x"}, Options{}); chunks != nil {
		t.Errorf("Assemble(nil) = %v", chunks)
	}
}

func TestBodyMarshalsAsADF(t *testing.T) {
	chunks := Assemble([]packer.Bin{bin("s")}, source.Entity{Value: "example.com"}, Options{})
	data, err := json.Marshal(chunks[0].Body)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded["type"] != "doc" || decoded["version"] != float64(1) {
		t.Errorf("root = %v", decoded)
	}
}

func TestDefang(t *testing.T) {
	tests := []struct {
		value string
		typ   source.EntityType
		want  string
	}{
		{"10.0.0.1", source.EntityIP, "10[.]0[.]0[.]1"},
		{"evil.example.com", source.EntityDomain, "evil[.]example[.]com"},
		{"https://a.b/c", source.EntityURL, "hxxps://a[.]b/c"},
		{"HTTP://a.b", source.EntityURL, "hxxp://a[.]b"},
		{"deadbeef.exe", source.EntityOther, "deadbeef.exe"},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := Defang(tt.value, tt.typ); got != tt.want {
				t.Errorf("Defang() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncationWarningNamesBudget(t *testing.T) {
	if got := TruncationWarning(60000); !strings.Contains(got, "60000") {
		t.Errorf("TruncationWarning = %q", got)
	}
}
