package packer

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/cicd-ai-toolkit/notepack/pkg/errors"
	"github.com/cicd-ai-toolkit/notepack/pkg/flatten"
)

func items(costs ...int) []flatten.SourceItem {
	out := make([]flatten.SourceItem, len(costs))
	for i, c := range costs {
		out[i] = flatten.SourceItem{SourceName: fmt.Sprintf("src-%d", i), TotalCost: c}
	}
	return out
}

func costsOf(b Bin) []int {
	out := make([]int, len(b.Items))
	for i, it := range b.Items {
		out[i] = it.TotalCost
	}
	return out
}

func TestPackFirstFitDescending(t *testing.T) {
	tests := []struct {
		name  string
		costs []int
		limit Limit
		want  [][]int
	}{
		{
			name:  "reduced first bin still fits exactly",
			costs: []int{50000, 40000, 5000},
			limit: Limit{FirstBinCapacity: 55000, Capacity: 60000},
			want:  [][]int{{50000, 5000}, {40000}},
		},
		{
			name:  "reduced first bin refuses",
			costs: []int{5000, 40000, 50000},
			limit: Limit{FirstBinCapacity: 54000, Capacity: 60000},
			want:  [][]int{{50000}, {40000, 5000}},
		},
		{
			name:  "later bins use full capacity",
			costs: []int{30, 30, 30},
			limit: Limit{FirstBinCapacity: 40, Capacity: 60},
			want:  [][]int{{30}, {30, 30}},
		},
		{
			name:  "oversized item gets its own bin",
			costs: []int{10, 100},
			limit: Limit{FirstBinCapacity: 50, Capacity: 50},
			want:  [][]int{{100}, {10}},
		},
		{
			name:  "everything fits in one bin",
			costs: []int{1, 2, 3},
			limit: Limit{FirstBinCapacity: 10, Capacity: 10},
			want:  [][]int{{3, 2, 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bins, err := Pack(items(tt.costs...), tt.limit)
			if err != nil {
				t.Fatalf("Pack: %v", err)
			}
			if len(bins) != len(tt.want) {
				t.Fatalf("got %d bins, want %d", len(bins), len(tt.want))
			}
			for i, want := range tt.want {
				got := costsOf(bins[i])
				if fmt.Sprint(got) != fmt.Sprint(want) {
					t.Errorf("bin %d = %v, want %v", i, got, want)
				}
				sum := 0
				for _, c := range want {
					sum += c
				}
				if bins[i].TotalCost != sum {
					t.Errorf("bin %d TotalCost = %d, want %d", i, bins[i].TotalCost, sum)
				}
			}
		})
	}
}

func TestPackStableOnTies(t *testing.T) {
	in := items(10, 10, 10)
	bins, err := Pack(in, Limit{FirstBinCapacity: 100, Capacity: 100})
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	for i, it := range bins[0].Items {
		if it.SourceName != in[i].SourceName {
			t.Errorf("position %d = %s, want %s", i, it.SourceName, in[i].SourceName)
		}
	}
}

func TestPackInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 200; round++ {
		n := 1 + rng.Intn(12)
		costs := make([]int, n)
		for i := range costs {
			costs[i] = 1 + rng.Intn(80)
		}
		limit := Limit{FirstBinCapacity: 20 + rng.Intn(40), Capacity: 60}
		in := items(costs...)

		bins, err := Pack(in, limit)
		if err != nil {
			t.Fatalf("Pack: %v", err)
		}

		seen := make(map[string]int)
		for i, b := range bins {
			if limit.Overfull(i, b) && len(b.Items) != 1 {
				t.Fatalf("round %d: bin %d over capacity with %d items", round, i, len(b.Items))
			}
			for _, it := range b.Items {
				seen[it.SourceName]++
			}
		}
		if len(seen) != len(in) {
			t.Fatalf("round %d: placed %d distinct items, want %d", round, len(seen), len(in))
		}
		for name, count := range seen {
			if count != 1 {
				t.Fatalf("round %d: %s placed %d times", round, name, count)
			}
		}
	}
}

func TestPackDoesNotReorderInput(t *testing.T) {
	in := items(1, 5, 3)
	if _, err := Pack(in, Limit{FirstBinCapacity: 10, Capacity: 10}); err != nil {
		t.Fatalf("Pack: %v", err)
	}
	if in[0].TotalCost != 1 || in[1].TotalCost != 5 || in[2].TotalCost != 3 {
		t.Errorf("input slice was reordered: %v", in)
	}
}

func TestPackErrors(t *testing.T) {
	_, err := Pack(items(1), Limit{FirstBinCapacity: 10, Capacity: 0})
	if !errors.IsType(err, errors.ErrConfig) {
		t.Errorf("err = %v, want config error", err)
	}

	bins, err := Pack(nil, Limit{FirstBinCapacity: 10, Capacity: 10})
	if err != nil || bins != nil {
		t.Errorf("Pack(nil) = %v, %v", bins, err)
	}
}

func TestFirstBinCapacity(t *testing.T) {
	tests := []struct {
		comment string
		want    int
	}{
		{"", 60000},
		{"   ", 60000},
		{"benign scanner", 59986},
		{"  benign scanner \n", 59986},
		{"ложный", 59994},
	}
	for _, tt := range tests {
		t.Run(tt.comment, func(t *testing.T) {
			if got := FirstBinCapacity(60000, tt.comment); got != tt.want {
				t.Errorf("FirstBinCapacity() = %d, want %d", got, tt.want)
			}
		})
	}
	l := NewLimit(100, "abc")
	if l.FirstBinCapacity != 97 || l.Capacity != 100 {
		t.Errorf("NewLimit = %+v", l)
	}
}
