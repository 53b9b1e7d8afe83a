package pipeline

import "decarbgoals/internal/model"

// ResultSet keeps records in the order they were appended.
type ResultSet struct {
	records []model.ExtractionRecord
}

func NewResultSet(capacity int) *ResultSet {
	return &ResultSet{records: make([]model.ExtractionRecord, 0, capacity)}
}

func (s *ResultSet) Append(record model.ExtractionRecord) {
	s.records = append(s.records, record)
}

func (s *ResultSet) Len() int {
	return len(s.records)
}

// Records returns a copy of the accumulated records.
func (s *ResultSet) Records() []model.ExtractionRecord {
	out := make([]model.ExtractionRecord, len(s.records))
	copy(out, s.records)
	return out
}
