package catalog

import (
	"fmt"
	"strings"
)

// CropType identifies one of the supported crops.
type CropType string

const (
	Tomato CropType = "tomato"
	Maize  CropType = "maize"
	Cotton CropType = "cotton"
	Rice   CropType = "rice"
	Wheat  CropType = "wheat"
	Potato CropType = "potato"
)

var cropOrder = []CropType{Tomato, Maize, Cotton, Rice, Wheat, Potato}

var cropLabels = map[CropType]string{
	Tomato: "Tomato",
	Maize:  "Maize",
	Cotton: "Cotton",
	Rice:   "Rice",
	Wheat:  "Wheat",
	Potato: "Potato",
}

// AllCrops returns the supported crops in display order.
func AllCrops() []CropType {
	out := make([]CropType, len(cropOrder))
	copy(out, cropOrder)
	return out
}

// Valid reports whether c belongs to the closed crop set.
func (c CropType) Valid() bool {
	_, ok := cropLabels[c]
	return ok
}

// Label is the human-facing crop name.
func (c CropType) Label() string {
	if label, ok := cropLabels[c]; ok {
		return label
	}
	return string(c)
}

func (c CropType) String() string {
	return string(c)
}

// ParseCropType accepts a crop identifier case-insensitively.
func ParseCropType(raw string) (CropType, error) {
	c := CropType(strings.ToLower(strings.TrimSpace(raw)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown crop type %q (supported: %s)", raw, supportedList())
	}
	return c, nil
}

func supportedList() string {
	names := make([]string, 0, len(cropOrder))
	for _, c := range cropOrder {
		names = append(names, string(c))
	}
	return strings.Join(names, ", ")
}
