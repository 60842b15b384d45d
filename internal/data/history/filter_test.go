package history

import (
	"testing"

	"cropcare/internal/data/catalog"
	"cropcare/internal/engine/analysis"
)

func sampleEntries() []analysis.Result {
	return []analysis.Result{
		{ID: "1", Crop: catalog.Tomato, Healthy: false, DiseaseName: "Late Blight"},
		{ID: "2", Crop: catalog.Rice, Healthy: true},
		{ID: "3", Crop: catalog.Tomato, Healthy: true},
		{ID: "4", Crop: catalog.Tomato, Healthy: false, DiseaseName: "Early Blight"},
		{ID: "5", Crop: catalog.Wheat, Healthy: false, DiseaseName: "Wheat Rust"},
	}
}

func ids(results []analysis.Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.ID)
	}
	return out
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter", filter: NoFilter(), want: []string{"1", "2", "3", "4", "5"}},
		{name: "zero value matches all", filter: Filter{}, want: []string{"1", "2", "3", "4", "5"}},
		{name: "tomato diseased", filter: Filter{Crop: CropFilter(catalog.Tomato), Status: StatusDiseased}, want: []string{"1", "4"}},
		{name: "healthy only", filter: Filter{Crop: AllCrops, Status: StatusHealthy}, want: []string{"2", "3"}},
		{name: "crop without entries", filter: Filter{Crop: CropFilter(catalog.Potato), Status: StatusAll}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(sampleEntries(), tt.filter))
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestParseFilters(t *testing.T) {
	crop, err := ParseCropFilter(" Tomato ")
	if err != nil || crop != CropFilter(catalog.Tomato) {
		t.Fatalf("expected tomato filter, got %q (%v)", crop, err)
	}
	if crop, _ := ParseCropFilter(""); crop != AllCrops {
		t.Fatalf("expected empty input to mean all crops, got %q", crop)
	}
	if _, err := ParseCropFilter("banana"); err == nil {
		t.Fatal("expected unknown crop to be rejected")
	}

	status, err := ParseStatusFilter("DISEASED")
	if err != nil || status != StatusDiseased {
		t.Fatalf("expected diseased filter, got %q (%v)", status, err)
	}
	if _, err := ParseStatusFilter("sick"); err == nil {
		t.Fatal("expected unknown status to be rejected")
	}
}

func TestFilterCycling(t *testing.T) {
	seen := []CropFilter{AllCrops}
	c := AllCrops
	for i := 0; i < len(catalog.AllCrops())+1; i++ {
		c = c.Next()
		seen = append(seen, c)
	}
	if seen[1] != CropFilter(catalog.Tomato) {
		t.Fatalf("expected tomato after all, got %q", seen[1])
	}
	if seen[len(seen)-1] != AllCrops {
		t.Fatalf("expected the cycle to return to all, got %q", seen[len(seen)-1])
	}

	if StatusAll.Next() != StatusHealthy || StatusHealthy.Next() != StatusDiseased || StatusDiseased.Next() != StatusAll {
		t.Fatal("status filter cycle out of order")
	}
}
