package domain

import "time"

// TransientRecord is one row of the daily TNS catalog export.
type TransientRecord struct {
	Prefix                 string
	Name                   string
	InternalNames          []string
	Type                   string
	RA                     float64
	Dec                    float64
	Redshift               *float64
	LastModified           time.Time
	DiscoveryBibcode       string
	ClassificationBibcodes string
}

// FullName joins the designation prefix and the object name, e.g. "TDE 2024abc".
func (r TransientRecord) FullName() string {
	if r.Prefix == "" {
		return r.Name
	}
	return r.Prefix + " " + r.Name
}

// InterestSet is the ordered set of classification labels worth reporting.
type InterestSet struct {
	labels []string
	lookup map[string]struct{}
}

// DefaultInterest lists the TDE classification family.
var DefaultInterest = []string{"TDE", "TDE-H", "TDE-He", "TDE-H-He"}

// NewInterestSet keeps the first occurrence of every label, in order.
func NewInterestSet(labels ...string) InterestSet {
	set := InterestSet{lookup: make(map[string]struct{}, len(labels))}
	for _, label := range labels {
		if _, ok := set.lookup[label]; ok || label == "" {
			continue
		}
		set.lookup[label] = struct{}{}
		set.labels = append(set.labels, label)
	}
	return set
}

// Contains reports exact membership.
func (s InterestSet) Contains(label string) bool {
	_, ok := s.lookup[label]
	return ok
}

// Labels returns a copy of the labels in configuration order.
func (s InterestSet) Labels() []string {
	return append([]string(nil), s.labels...)
}

// Len is the number of distinct labels.
func (s InterestSet) Len() int {
	return len(s.labels)
}
