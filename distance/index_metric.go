package distance

import (
	"fmt"
	"math"

	"github.com/hupe1980/crossrank/model"
)

type options struct {
	normalize bool
	class     bool
}

// Option configures an IndexMetric.
type Option func(*options)

// WithNormalization toggles min/max scaling of numeric attributes to [0,1]
// using the ranges observed in the index. Enabled by default.
func WithNormalization(enabled bool) Option {
	return func(o *options) {
		o.normalize = enabled
	}
}

// WithClassAttribute makes the class attribute take part in the distance
// like any other nominal or numeric attribute. Disabled by default.
func WithClassAttribute(enabled bool) Option {
	return func(o *options) {
		o.class = enabled
	}
}

// IndexMetric is a Metric configured for one index.
//
// Only feature attributes take part: the document attribute, string and
// date attributes, and (unless WithClassAttribute is set) the class
// attribute are skipped. Numeric attributes contribute their difference,
// nominal attributes contribute 0 for equal labels and 1 otherwise.
//
// Missing numeric values are compared against the observed range: both
// missing yields the full range, one missing yields the larger distance
// from the known value to either end of the range. With normalization the
// range is [0,1].
type IndexMetric struct {
	measure   Measure
	width     int
	normalize bool
	attrs     []int
	types     []model.AttributeType
	min       []float64
	max       []float64
}

// New configures a metric for idx. Attribute ranges are collected once here;
// the returned metric is read-only afterwards.
func New(m Measure, idx *model.Index, optFns ...Option) (*IndexMetric, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	opts := options{normalize: true}
	for _, fn := range optFns {
		fn(&opts)
	}

	schema := idx.Schema()
	im := &IndexMetric{
		measure:   m,
		width:     schema.Len(),
		normalize: opts.normalize,
	}

	for i, a := range schema.Attributes {
		if a.Type != model.Numeric && a.Type != model.Nominal {
			continue
		}
		if i == idx.DocumentAttribute() || (i == idx.ClassAttribute() && !opts.class) {
			continue
		}
		im.attrs = append(im.attrs, i)
		im.types = append(im.types, a.Type)
	}

	im.min = make([]float64, len(im.attrs))
	im.max = make([]float64, len(im.attrs))
	for j := range im.attrs {
		im.min[j] = math.NaN()
		im.max[j] = math.NaN()
	}

	for r := 0; r < idx.Len(); r++ {
		rec := idx.Record(r)
		for j, i := range im.attrs {
			if im.types[j] != model.Numeric || rec.IsMissing(i) {
				continue
			}
			v := rec.Value(i)
			if math.IsNaN(im.min[j]) || v < im.min[j] {
				im.min[j] = v
			}
			if math.IsNaN(im.max[j]) || v > im.max[j] {
				im.max[j] = v
			}
		}
	}

	return im, nil
}

// Measure returns the configured measure.
func (im *IndexMetric) Measure() Measure { return im.measure }

// Features returns the number of attributes taking part in the distance.
func (im *IndexMetric) Features() int { return len(im.attrs) }

// Distance implements Metric.
func (im *IndexMetric) Distance(a, b *model.Record) (float64, error) {
	if a.Len() != im.width || b.Len() != im.width {
		return 0, fmt.Errorf("record widths %d and %d, schema has %d: %w",
			a.Len(), b.Len(), im.width, model.ErrSchemaMismatch)
	}

	var sum float64
	for j, i := range im.attrs {
		d := im.difference(j, a, b, i)
		if im.measure == L1 {
			sum += math.Abs(d)
		} else {
			sum += d * d
		}
	}

	if im.measure == L2 {
		return math.Sqrt(sum), nil
	}
	return sum, nil
}

func (im *IndexMetric) difference(j int, a, b *model.Record, i int) float64 {
	missA, missB := a.IsMissing(i), b.IsMissing(i)

	if im.types[j] == model.Nominal {
		if missA || missB || a.Value(i) != b.Value(i) {
			return 1
		}
		return 0
	}

	if !missA && !missB {
		return im.scale(j, a.Value(i)) - im.scale(j, b.Value(i))
	}

	lo, hi := im.bounds(j)
	if missA && missB {
		return hi - lo
	}

	known := a.Value(i)
	if missA {
		known = b.Value(i)
	}
	v := im.scale(j, known)
	return max(hi-v, v-lo)
}

// bounds returns the range a scaled value of attribute j falls into.
func (im *IndexMetric) bounds(j int) (float64, float64) {
	if im.normalize {
		return 0, 1
	}
	lo, hi := im.min[j], im.max[j]
	if math.IsNaN(lo) {
		return 0, 0
	}
	return lo, hi
}

func (im *IndexMetric) scale(j int, v float64) float64 {
	if !im.normalize {
		return v
	}
	lo, hi := im.min[j], im.max[j]
	if math.IsNaN(lo) || hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
