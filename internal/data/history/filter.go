package history

import (
	"fmt"
	"strings"

	"cropcare/internal/data/catalog"
	"cropcare/internal/engine/analysis"
)

// CropFilter is either AllCrops or a single crop type.
type CropFilter string

const AllCrops CropFilter = "all"

type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusHealthy  StatusFilter = "healthy"
	StatusDiseased StatusFilter = "diseased"
)

var statusOrder = []StatusFilter{StatusAll, StatusHealthy, StatusDiseased}

type Filter struct {
	Crop   CropFilter
	Status StatusFilter
}

// NoFilter matches every entry.
func NoFilter() Filter {
	return Filter{Crop: AllCrops, Status: StatusAll}
}

func ParseCropFilter(raw string) (CropFilter, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == "" || value == string(AllCrops) {
		return AllCrops, nil
	}
	crop, err := catalog.ParseCropType(value)
	if err != nil {
		return "", fmt.Errorf("crop filter: %w", err)
	}
	return CropFilter(crop), nil
}

func ParseStatusFilter(raw string) (StatusFilter, error) {
	value := StatusFilter(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return StatusAll, nil
	}
	for _, s := range statusOrder {
		if value == s {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown status filter %q (want all, healthy or diseased)", raw)
}

// Next cycles all -> tomato -> ... -> potato -> all.
func (c CropFilter) Next() CropFilter {
	crops := catalog.AllCrops()
	if c == AllCrops || c == "" {
		return CropFilter(crops[0])
	}
	for i, crop := range crops {
		if CropFilter(crop) == c && i+1 < len(crops) {
			return CropFilter(crops[i+1])
		}
	}
	return AllCrops
}

func (c CropFilter) Label() string {
	if c == AllCrops || c == "" {
		return "All Crops"
	}
	return catalog.CropType(c).Label()
}

func (s StatusFilter) Next() StatusFilter {
	for i, status := range statusOrder {
		if status == s {
			return statusOrder[(i+1)%len(statusOrder)]
		}
	}
	return StatusAll
}

func (s StatusFilter) Label() string {
	switch s {
	case StatusHealthy:
		return "Healthy"
	case StatusDiseased:
		return "Diseased"
	default:
		return "All Status"
	}
}

func (f Filter) Matches(r analysis.Result) bool {
	if f.Crop != "" && f.Crop != AllCrops && CropFilter(r.Crop) != f.Crop {
		return false
	}
	switch f.Status {
	case StatusHealthy:
		return r.Healthy
	case StatusDiseased:
		return !r.Healthy
	}
	return true
}

// Apply returns the entries matching f in their original order.
func Apply(entries []analysis.Result, f Filter) []analysis.Result {
	out := make([]analysis.Result, 0, len(entries))
	for _, r := range entries {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
