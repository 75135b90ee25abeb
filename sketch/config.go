package sketch

import (
	"go.dedis.ch/anysketch"
	"go.dedis.ch/anysketch/fingerprint"
)

// DistributionSpec describes a distribution in a configuration file.
// Uniform and geometric distributions cover [0, NumValues-1] when
// NumValues is set and [Min, Max] otherwise.
type DistributionSpec struct {
	Kind      string  `toml:"kind"`
	Key       string  `toml:"key"`
	Min       int64   `toml:"min"`
	Max       int64   `toml:"max"`
	NumValues int64   `toml:"num_values"`
	Rate      float64 `toml:"rate"`
}

// IndexSpec names one index distribution. The name salts the
// fingerprints.
type IndexSpec struct {
	Name         string           `toml:"name"`
	Distribution DistributionSpec `toml:"distribution"`
}

// ValueSpec names one value of the registers.
type ValueSpec struct {
	Name         string           `toml:"name"`
	Aggregator   string           `toml:"aggregator"`
	Distribution DistributionSpec `toml:"distribution"`
}

// Config describes the shape of a sketch.
type Config struct {
	// Fingerprinter names the base fingerprinter, see fingerprint.ByName.
	Fingerprinter string      `toml:"fingerprinter"`
	Indexes       []IndexSpec `toml:"index"`
	Values        []ValueSpec `toml:"value"`
}

// Aggregators returns the aggregator type of every value.
func (c *Config) Aggregators() ([]AggregatorType, error) {
	types := make([]AggregatorType, len(c.Values))
	for i, v := range c.Values {
		t, err := ParseAggregatorType(v.Aggregator)
		if err != nil {
			return nil, anysketch.ErrorOrNil(err, "value "+v.Name)
		}
		types[i] = t
	}
	return types, nil
}

// NewSketch returns an empty sketch of this shape.
func (c *Config) NewSketch() (*Sketch, error) {
	base, err := fingerprint.ByName(c.Fingerprinter)
	if err != nil {
		return nil, err
	}

	indexes := make([]Distribution, len(c.Indexes))
	for i, spec := range c.Indexes {
		indexes[i], err = spec.Distribution.build(spec.Name, base)
		if err != nil {
			return nil, anysketch.ErrorOrNil(err, "index "+spec.Name)
		}
	}

	types, err := c.Aggregators()
	if err != nil {
		return nil, err
	}
	values := make([]ValueFunction, len(c.Values))
	for i, spec := range c.Values {
		d, err := spec.Distribution.build(spec.Name, base)
		if err != nil {
			return nil, anysketch.ErrorOrNil(err, "value "+spec.Name)
		}
		values[i] = ValueFunction{Name: spec.Name, Aggregator: types[i], Distribution: d}
	}
	return New(indexes, values)
}

func (d DistributionSpec) build(salt string, base fingerprint.Fingerprinter) (Distribution, error) {
	fp := fingerprint.NewSalted(salt, base)
	min, max := d.Min, d.Max
	if d.NumValues > 0 {
		min, max = 0, d.NumValues-1
	}
	switch d.Kind {
	case "oracle":
		return NewOracle(d.Key, d.Min, d.Max)
	case "uniform":
		return NewUniform(fp, min, max)
	case "exponential":
		return NewExponential(fp, d.Rate, d.NumValues)
	case "geometric":
		return NewGeometric(fp, min, max)
	}
	return nil, anysketch.InvalidArgument("unknown distribution %q", d.Kind)
}
