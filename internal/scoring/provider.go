// Package scoring provides the substitution scores used by the aligners.
//
// A Provider maps an ordered pair of symbols to an integer score. The main
// implementation is Matrix, read from the plain-text BLOSUM layout; Identity
// covers the simple match/mismatch case.
package scoring

// Provider returns the substitution score for aligning symbol a against b.
// A pair the provider does not define is a *LookupError, never a silent zero.
// Implementations must be safe for concurrent readers.
type Provider interface {
	Score(a, b byte) (int, error)
}

// Identity scores equal symbols with Match and everything else with Mismatch.
// It defines every pair.
type Identity struct {
	Match    int
	Mismatch int
}

// Score implements Provider.
func (s *Identity) Score(a, b byte) (int, error) {
	if a == b {
		return s.Match, nil
	}
	return s.Mismatch, nil
}
