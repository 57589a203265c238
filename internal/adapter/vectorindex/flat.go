// Package vectorindex holds the exact k-nearest-neighbor index used for
// paragraph retrieval.
package vectorindex

import (
	"fmt"
	"math"
	"sort"

	"github.com/viant/vec/search"

	"clinicbot/internal/domain"
	"clinicbot/internal/port"
)

// Metric names accepted by the index.
const (
	MetricCosine       = "cosine"
	MetricEuclidean    = "l2"
	MetricInnerProduct = "ip"
)

// FlatIndex is a brute-force index over positional vectors. Vector i is
// paragraph i. It is read-only after construction and safe for concurrent use.
type FlatIndex struct {
	vecs   []search.Float32s
	mags   []float32
	dim    int
	metric string
}

// NewFlatIndex builds an index over vectors using metric.
func NewFlatIndex(vectors [][]float32, metric string) (*FlatIndex, error) {
	if err := ValidateMetric(metric); err != nil {
		return nil, err
	}

	idx := &FlatIndex{
		vecs:   make([]search.Float32s, len(vectors)),
		mags:   make([]float32, len(vectors)),
		metric: metric,
	}
	if len(vectors) == 0 {
		return idx, nil
	}

	idx.dim = len(vectors[0])
	for i, v := range vectors {
		if len(v) != idx.dim {
			return nil, fmt.Errorf("vector %d: %w", i, &domain.DimensionMismatchError{Expected: idx.dim, Got: len(v)})
		}
		idx.vecs[i] = search.Float32s(v)
		idx.mags[i] = idx.vecs[i].Magnitude()
	}
	return idx, nil
}

// FromCorpus builds an index over the corpus vectors with the metric the
// corpus was built for.
func FromCorpus(c *domain.Corpus) (*FlatIndex, error) {
	metric := c.Meta.Metric
	if metric == "" {
		metric = MetricCosine
	}
	idx, err := NewFlatIndex(c.Vectors(), metric)
	if err != nil {
		return nil, err
	}
	if idx.dim == 0 {
		idx.dim = c.Meta.Dimension
	}
	return idx, nil
}

func ValidateMetric(metric string) error {
	switch metric {
	case MetricCosine, MetricEuclidean, MetricInnerProduct:
		return nil
	default:
		return fmt.Errorf("unsupported distance metric: %q", metric)
	}
}

// Search returns up to min(k, Len()) hits ordered closest first. Ties keep
// position order so results are stable. Under the cosine metric a
// zero-magnitude query or vector sits at distance 1 from everything, so an
// empty or stopword-only query still yields the first k positions.
func (x *FlatIndex) Search(query []float32, k int) ([]port.VectorHit, error) {
	if k <= 0 || len(x.vecs) == 0 {
		return nil, nil
	}
	if len(query) != x.dim {
		return nil, &domain.DimensionMismatchError{Expected: x.dim, Got: len(query)}
	}

	q := search.Float32s(query)
	qm := q.Magnitude()

	hits := make([]port.VectorHit, 0, len(x.vecs))
	for i, v := range x.vecs {
		hit, ok := x.score(q, qm, v, x.mags[i])
		if !ok {
			continue
		}
		hit.Position = i
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].Distance < hits[b].Distance
	})

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (x *FlatIndex) score(q search.Float32s, qm float32, v search.Float32s, vm float32) (port.VectorHit, bool) {
	switch x.metric {
	case MetricEuclidean:
		d := float64(q.EuclideanDistance(v))
		return port.VectorHit{Distance: d, Score: 1 / (1 + d)}, true
	case MetricInnerProduct:
		ip := dot(q, v)
		return port.VectorHit{Distance: -ip, Score: ip}, true
	default:
		if qm == 0 || vm == 0 {
			return port.VectorHit{Distance: 1, Score: 0}, true
		}
		d := float64(q.CosineDistance(v))
		if math.IsNaN(d) {
			return port.VectorHit{}, false
		}
		return port.VectorHit{Distance: d, Score: 1 - d}, true
	}
}

func (x *FlatIndex) Len() int {
	return len(x.vecs)
}

func (x *FlatIndex) Dimension() int {
	return x.dim
}

func (x *FlatIndex) Metric() string {
	return x.metric
}

func dot(a, b []float32) float64 {
	var s float64
	for i := range a {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
