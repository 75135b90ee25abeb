// Package sketch implements AnySketch, a generalized sketch covering Bloom
// filters, HyperLogLogs and Liquid Legions.
//
// A sketch is a sparse set of registers. The index of the register an item
// lands in is computed by a list of distributions, and the register holds
// one value per value function, merged with the function's aggregator
// whenever another item lands in the same register.
package sketch

import (
	"encoding/binary"
	"math/bits"
	"sort"
	"strconv"

	"go.dedis.ch/anysketch"
)

// ValueFunction describes one value of every register: how it is computed
// from an item and how colliding values are merged.
type ValueFunction struct {
	Name         string
	Aggregator   AggregatorType
	Distribution Distribution
}

// Register is one slot of a sketch.
type Register struct {
	Index  uint64
	Values []int64
}

// Sketch is not safe for concurrent use.
type Sketch struct {
	indexes     []Distribution
	values      []ValueFunction
	aggregators []Aggregator
	registers   map[uint64][]int64
}

// New returns an empty sketch. It fails if the index distributions span
// more than 2^64 registers or if a value function has an unknown
// aggregator.
func New(indexes []Distribution, values []ValueFunction) (*Sketch, error) {
	var total uint64 = 1
	for i, d := range indexes {
		size := Size(d)
		hi, lo := bits.Mul64(total, size)
		if size == 0 || hi != 0 {
			return nil, anysketch.InvalidArgument("index distribution %d: index space does not fit into 64 bits", i)
		}
		total = lo
	}

	s := &Sketch{
		indexes:   indexes,
		values:    values,
		registers: make(map[uint64][]int64),
	}
	for _, v := range values {
		agg, err := AggregatorFor(v.Aggregator)
		if err != nil {
			return nil, anysketch.ErrorOrNil(err, "value "+v.Name)
		}
		s.aggregators = append(s.aggregators, agg)
	}
	return s, nil
}

// Width returns the number of values of every register.
func (s *Sketch) Width() int {
	return len(s.values)
}

// Len returns the number of registers touched so far.
func (s *Sketch) Len() int {
	return len(s.registers)
}

// ValueFunctions returns the value functions of the sketch.
func (s *Sketch) ValueFunctions() []ValueFunction {
	return s.values
}

// IndexDistributions returns the index distributions of the sketch.
func (s *Sketch) IndexDistributions() []Distribution {
	return s.indexes
}

// ValueIndex returns the position of the value function called name.
func (s *Sketch) ValueIndex(name string) (int, bool) {
	for i, v := range s.values {
		if v.Name == name {
			return i, true
		}
	}
	return 0, false
}

// Insert adds an item to the sketch.
func (s *Sketch) Insert(item []byte, md Metadata) error {
	index, err := s.index(item, md)
	if err != nil {
		return err
	}
	values := make([]int64, len(s.values))
	for i, v := range s.values {
		values[i], err = v.Distribution.Apply(item, md)
		if err != nil {
			return anysketch.ErrorOrNil(err, "value "+v.Name)
		}
	}
	return s.AggregateIntoRegister(index, values)
}

// InsertString adds a string item to the sketch.
func (s *Sketch) InsertString(item string, md Metadata) error {
	return s.Insert([]byte(item), md)
}

// InsertUint64 adds an integer item, encoded as eight little-endian bytes.
func (s *Sketch) InsertUint64(item uint64, md Metadata) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], item)
	return s.Insert(buf[:], md)
}

// index folds the coordinates into one number, the first distribution
// being the most significant digit.
func (s *Sketch) index(item []byte, md Metadata) (uint64, error) {
	var index uint64
	for i, d := range s.indexes {
		v, err := d.Apply(item, md)
		if err != nil {
			return 0, anysketch.ErrorOrNil(err, "index distribution "+strconv.Itoa(i))
		}
		index = index*Size(d) + uint64(v-d.Min())
	}
	return index, nil
}

// AggregateIntoRegister merges values into the register at index, creating
// the register if needed.
func (s *Sketch) AggregateIntoRegister(index uint64, values []int64) error {
	if len(values) != len(s.values) {
		return anysketch.InvalidArgument("got %d values for a sketch of width %d", len(values), len(s.values))
	}
	current, ok := s.registers[index]
	if !ok {
		s.registers[index] = append([]int64(nil), values...)
		return nil
	}
	for i, agg := range s.aggregators {
		current[i] = agg.Aggregate(current[i], values[i])
	}
	return nil
}

// Merge aggregates every register of other into s.
func (s *Sketch) Merge(other *Sketch) error {
	if other.Width() != s.Width() {
		return anysketch.InvalidArgument("cannot merge a sketch of width %d into one of width %d", other.Width(), s.Width())
	}
	for i, v := range other.values {
		if v.Aggregator != s.values[i].Aggregator {
			return anysketch.InvalidArgument("value %d: aggregator %v does not match %v", i, v.Aggregator, s.values[i].Aggregator)
		}
	}
	for index, values := range other.registers {
		if err := s.AggregateIntoRegister(index, values); err != nil {
			return err
		}
	}
	return nil
}

// MergeAll merges every sketch of others into s.
func (s *Sketch) MergeAll(others ...*Sketch) error {
	for _, o := range others {
		if err := s.Merge(o); err != nil {
			return err
		}
	}
	return nil
}

// Register returns a copy of the values at index.
func (s *Sketch) Register(index uint64) ([]int64, bool) {
	values, ok := s.registers[index]
	if !ok {
		return nil, false
	}
	return append([]int64(nil), values...), true
}

// Range calls f for every register until f returns false. The order is
// unspecified and changes between calls. The values passed to f are copies.
func (s *Sketch) Range(f func(Register) bool) {
	for index, values := range s.registers {
		if !f(Register{Index: index, Values: append([]int64(nil), values...)}) {
			return
		}
	}
}

// Registers returns a copy of all registers sorted by index.
func (s *Sketch) Registers() []Register {
	regs := make([]Register, 0, len(s.registers))
	s.Range(func(r Register) bool {
		regs = append(regs, r)
		return true
	})
	sort.Slice(regs, func(i, j int) bool { return regs[i].Index < regs[j].Index })
	return regs
}
