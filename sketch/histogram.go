package sketch

import "go.dedis.ch/anysketch"

// ValueHistogram counts, for every value taken by the value function
// called name, the registers holding it. Registers for which keep returns
// false are skipped; a nil keep keeps everything.
func ValueHistogram(s *Sketch, name string, keep func(Register) bool) (map[int64]int64, error) {
	pos, ok := s.ValueIndex(name)
	if !ok {
		return nil, anysketch.InvalidArgument("sketch has no value %q", name)
	}
	hist := make(map[int64]int64)
	s.Range(func(r Register) bool {
		if keep == nil || keep(r) {
			hist[r.Values[pos]]++
		}
		return true
	})
	return hist, nil
}
