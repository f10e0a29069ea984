// Package dedup detects re-uploads and likely updated résumés of candidates
// that are already stored.
package dedup

// DefaultThreshold is the similarity percentage at which a content match is
// treated as the same person.
const DefaultThreshold = 70.0

// Policy holds the weights of the content-identity heuristic. Zero fields are
// replaced by their defaults in NewResolver.
type Policy struct {
	NameExactWeight     float64
	NameSubstringWeight float64
	EmailWeight         float64
	PhoneWeight         float64
	Threshold           float64
}

// DefaultPolicy returns the standard weighting: exact name 3, partial name 2,
// email 2, phone 2, threshold 70%.
func DefaultPolicy() Policy {
	return Policy{
		NameExactWeight:     3,
		NameSubstringWeight: 2,
		EmailWeight:         2,
		PhoneWeight:         2,
		Threshold:           DefaultThreshold,
	}
}

func (p Policy) withDefaults() Policy {
	d := DefaultPolicy()
	if p.NameExactWeight <= 0 {
		p.NameExactWeight = d.NameExactWeight
	}
	if p.NameSubstringWeight <= 0 {
		p.NameSubstringWeight = d.NameSubstringWeight
	}
	if p.EmailWeight <= 0 {
		p.EmailWeight = d.EmailWeight
	}
	if p.PhoneWeight <= 0 {
		p.PhoneWeight = d.PhoneWeight
	}
	if p.Threshold <= 0 {
		p.Threshold = d.Threshold
	}
	return p
}
