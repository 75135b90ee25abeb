package sketch

import "go.dedis.ch/anysketch"

// Destroyed is the value a Unique register takes once two different
// values were aggregated into it.
const Destroyed int64 = -1

// AggregatorType selects how two values landing in the same register are
// combined.
type AggregatorType int32

const (
	// Sum adds the values.
	Sum AggregatorType = iota
	// Unique keeps the value while every contribution agrees and destroys
	// the register otherwise.
	Unique
)

func (t AggregatorType) String() string {
	switch t {
	case Sum:
		return "sum"
	case Unique:
		return "unique"
	}
	return "unknown"
}

// ParseAggregatorType returns the aggregator type named s.
func ParseAggregatorType(s string) (AggregatorType, error) {
	switch s {
	case "sum", "SUM":
		return Sum, nil
	case "unique", "UNIQUE":
		return Unique, nil
	}
	return 0, anysketch.InvalidArgument("unknown aggregator %q", s)
}

// Aggregator combines register values. Aggregate must be commutative and
// associative so that merging sketches does not depend on their order.
// Encode and Decode convert between the in-memory value and the value
// written to a record.
type Aggregator interface {
	Aggregate(current, incoming int64) int64
	Encode(v int64) int64
	Decode(v int64) int64
}

type sumAggregator struct{}

func (sumAggregator) Aggregate(current, incoming int64) int64 { return current + incoming }
func (sumAggregator) Encode(v int64) int64                    { return v }
func (sumAggregator) Decode(v int64) int64                    { return v }

type uniqueAggregator struct{}

func (uniqueAggregator) Aggregate(current, incoming int64) int64 {
	if current == incoming && current != Destroyed {
		return current
	}
	return Destroyed
}

// Destroyed registers are written as 0 so that every live value is
// positive on the wire.
func (uniqueAggregator) Encode(v int64) int64 { return v + 1 }
func (uniqueAggregator) Decode(v int64) int64 { return v - 1 }

// AggregatorFor returns the aggregator implementing t.
func AggregatorFor(t AggregatorType) (Aggregator, error) {
	switch t {
	case Sum:
		return sumAggregator{}, nil
	case Unique:
		return uniqueAggregator{}, nil
	}
	return nil, anysketch.InvalidArgument("unknown aggregator type %d", t)
}
