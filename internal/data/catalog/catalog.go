package catalog

// DiseaseRecord is reference data for one disease of one crop.
type DiseaseRecord struct {
	Name       string   `json:"name"`
	Cause      string   `json:"cause"`
	Symptoms   []string `json:"symptoms"`
	Treatment  []string `json:"treatment"`
	Prevention []string `json:"prevention"`
}

// Catalog looks up disease records by crop. Implementations must return
// data the caller is free to modify.
type Catalog interface {
	Diseases(crop CropType) []DiseaseRecord
}

// Static is a read-only in-memory catalog.
type Static struct {
	entries map[CropType][]DiseaseRecord
}

// NewStatic copies entries so later changes to the argument are not visible.
func NewStatic(entries map[CropType][]DiseaseRecord) *Static {
	cp := make(map[CropType][]DiseaseRecord, len(entries))
	for crop, records := range entries {
		cp[crop] = cloneRecords(records)
	}
	return &Static{entries: cp}
}

// Diseases returns the records for crop, or an empty slice when the crop
// has no entry.
func (s *Static) Diseases(crop CropType) []DiseaseRecord {
	if s == nil {
		return []DiseaseRecord{}
	}
	return cloneRecords(s.entries[crop])
}

// Names lists the disease names for crop in catalog order.
func (s *Static) Names(crop CropType) []string {
	records := s.Diseases(crop)
	names := make([]string, 0, len(records))
	for _, r := range records {
		names = append(names, r.Name)
	}
	return names
}

func (r DiseaseRecord) clone() DiseaseRecord {
	return DiseaseRecord{
		Name:       r.Name,
		Cause:      r.Cause,
		Symptoms:   append([]string(nil), r.Symptoms...),
		Treatment:  append([]string(nil), r.Treatment...),
		Prevention: append([]string(nil), r.Prevention...),
	}
}

func cloneRecords(records []DiseaseRecord) []DiseaseRecord {
	out := make([]DiseaseRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.clone())
	}
	return out
}

var defaultCatalog = NewStatic(defaultEntries)

// Default returns the built-in disease table.
func Default() *Static {
	return defaultCatalog
}
