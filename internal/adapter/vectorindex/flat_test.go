package vectorindex

import (
	"errors"
	"testing"

	"clinicbot/internal/domain"
)

func testVectors() [][]float32 {
	return [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0.9, 0.1, 0},
		{0, 0, 1},
	}
}

func TestFlatIndex_CosineOrdering(t *testing.T) {
	idx, err := NewFlatIndex(testVectors(), MetricCosine)
	if err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}

	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
	if hits[0].Position != 0 || hits[1].Position != 2 {
		t.Errorf("expected positions [0 2 ...], got %+v", hits)
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("hits not ordered by distance: %+v", hits)
		}
	}
}

func TestFlatIndex_Euclidean(t *testing.T) {
	idx, err := NewFlatIndex([][]float32{{0, 0}, {3, 4}, {1, 1}}, MetricEuclidean)
	if err != nil {
		t.Fatal(err)
	}

	hits, err := idx.Search([]float32{0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	expected := []int{0, 2, 1}
	for i, h := range hits {
		if h.Position != expected[i] {
			t.Errorf("hit %d: expected position %d, got %d", i, expected[i], h.Position)
		}
	}
	if hits[2].Distance < 4.99 || hits[2].Distance > 5.01 {
		t.Errorf("expected distance 5 for (3,4), got %f", hits[2].Distance)
	}
}

func TestFlatIndex_InnerProduct(t *testing.T) {
	idx, err := NewFlatIndex([][]float32{{1, 0}, {5, 0}, {-1, 0}}, MetricInnerProduct)
	if err != nil {
		t.Fatal(err)
	}

	hits, _ := idx.Search([]float32{1, 0}, 2)
	if len(hits) != 2 || hits[0].Position != 1 || hits[1].Position != 0 {
		t.Errorf("expected positions [1 0], got %+v", hits)
	}
}

func TestFlatIndex_TopKBounds(t *testing.T) {
	idx, _ := NewFlatIndex(testVectors()[:2], MetricCosine)

	hits, err := idx.Search([]float32{1, 1, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 2 {
		t.Errorf("expected 2 hits when k exceeds index size, got %d", len(hits))
	}

	hits, _ = idx.Search([]float32{1, 1, 0}, 0)
	if len(hits) != 0 {
		t.Errorf("expected no hits for k=0, got %d", len(hits))
	}
}

func TestFlatIndex_PositionsInRange(t *testing.T) {
	vecs := testVectors()
	idx, _ := NewFlatIndex(vecs, MetricCosine)

	hits, _ := idx.Search([]float32{0.3, 0.3, 0.3}, 10)
	for _, h := range hits {
		if h.Position < 0 || h.Position >= len(vecs) {
			t.Errorf("position %d out of range", h.Position)
		}
	}
}

func TestFlatIndex_ZeroQueryCosine(t *testing.T) {
	idx, _ := NewFlatIndex(testVectors(), MetricCosine)

	hits, err := idx.Search([]float32{0, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits for zero query, got %+v", hits)
	}
	for i, h := range hits {
		if h.Position != i || h.Score != 0 || h.Distance != 1 {
			t.Errorf("hit %d: expected position %d at distance 1, got %+v", i, i, h)
		}
	}

	hits, _ = idx.Search([]float32{0, 0, 0}, 10)
	if len(hits) != len(testVectors()) {
		t.Errorf("expected %d hits, got %d", len(testVectors()), len(hits))
	}
}

func TestFlatIndex_ZeroVectorCosine(t *testing.T) {
	idx, _ := NewFlatIndex([][]float32{{0, 1, 0}, {0, 0, 0}, {1, 0, 0}}, MetricCosine)

	hits, err := idx.Search([]float32{1, 0, 0}, 3)
	if err != nil {
		t.Fatal(err)
	}
	expected := []int{2, 0, 1}
	if len(hits) != len(expected) {
		t.Fatalf("expected %d hits, got %+v", len(expected), hits)
	}
	for i, h := range hits {
		if h.Position != expected[i] {
			t.Errorf("hit %d: expected position %d, got %d", i, expected[i], h.Position)
		}
	}
}

func TestFlatIndex_DimensionMismatch(t *testing.T) {
	idx, _ := NewFlatIndex(testVectors(), MetricCosine)

	_, err := idx.Search([]float32{1, 0}, 1)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}

	_, err = NewFlatIndex([][]float32{{1, 0}, {1}}, MetricCosine)
	if !errors.Is(err, domain.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch for ragged vectors, got %v", err)
	}
}

func TestFlatIndex_Deterministic(t *testing.T) {
	vecs := [][]float32{{1, 0}, {1, 0}, {1, 0}, {0, 1}}
	idx, _ := NewFlatIndex(vecs, MetricCosine)

	first, _ := idx.Search([]float32{1, 0}, 3)
	for i := 0; i < 20; i++ {
		again, _ := idx.Search([]float32{1, 0}, 3)
		for j := range first {
			if again[j].Position != first[j].Position {
				t.Fatalf("search not deterministic: %+v vs %+v", first, again)
			}
		}
	}
	// ties resolve by position
	if first[0].Position != 0 || first[1].Position != 1 || first[2].Position != 2 {
		t.Errorf("expected tie order [0 1 2], got %+v", first)
	}
}

func TestValidateMetric(t *testing.T) {
	for _, m := range []string{MetricCosine, MetricEuclidean, MetricInnerProduct} {
		if err := ValidateMetric(m); err != nil {
			t.Errorf("metric %s rejected: %v", m, err)
		}
	}
	if err := ValidateMetric("manhattan"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
