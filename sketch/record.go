package sketch

import (
	"go.dedis.ch/anysketch"
)

// RegisterRecord is a register as written to a record: the index is
// reinterpreted as a signed integer and every value is encoded by its
// aggregator, so a destroyed Unique value is 0.
type RegisterRecord struct {
	Index  int64
	Values []int64
}

// Record is the exchangeable form of a plaintext sketch. Aggregators gives
// the aggregator type of every value.
type Record struct {
	Aggregators []AggregatorType
	Registers   []RegisterRecord
}

// ToRecord encodes s.
func ToRecord(s *Sketch) *Record {
	r := &Record{Aggregators: make([]AggregatorType, len(s.values))}
	for i, v := range s.values {
		r.Aggregators[i] = v.Aggregator
	}
	for _, reg := range s.Registers() {
		for i, agg := range s.aggregators {
			reg.Values[i] = agg.Encode(reg.Values[i])
		}
		r.Registers = append(r.Registers, RegisterRecord{Index: int64(reg.Index), Values: reg.Values})
	}
	return r
}

// FromRecord decodes r and aggregates its registers into s.
func FromRecord(s *Sketch, r *Record) error {
	if len(r.Aggregators) != s.Width() {
		return anysketch.InvalidArgument("record has %d values, sketch has %d", len(r.Aggregators), s.Width())
	}
	for i, t := range r.Aggregators {
		if t != s.values[i].Aggregator {
			return anysketch.InvalidArgument("value %d: record aggregator %v does not match %v", i, t, s.values[i].Aggregator)
		}
	}
	for _, reg := range r.Registers {
		if len(reg.Values) != s.Width() {
			return anysketch.InvalidArgument("register %d has %d values, expected %d", reg.Index, len(reg.Values), s.Width())
		}
		values := make([]int64, len(reg.Values))
		for i, agg := range s.aggregators {
			values[i] = agg.Decode(reg.Values[i])
		}
		if err := s.AggregateIntoRegister(uint64(reg.Index), values); err != nil {
			return err
		}
	}
	return nil
}

// Width returns the number of values per register.
func (r *Record) Width() int {
	return len(r.Aggregators)
}
