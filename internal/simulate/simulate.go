// Package simulate draws outcomes for the simulated authentication and
// payment backends.
//
// A Draw yields numbers in [0,1); a Table maps a draw onto weighted
// outcomes. Production wires Uniform, tests wire Sequence so every outcome
// is scripted.
package simulate

import (
	"fmt"
	"math/rand/v2"
	"sync"
)

// Draw returns the next number in [0,1).
type Draw func() float64

// Uniform draws from the runtime's random source.
func Uniform() Draw {
	return rand.Float64
}

// Sequence replays vals in order and then keeps returning the last one.
// It panics when called with no values.
func Sequence(vals ...float64) Draw {
	if len(vals) == 0 {
		panic("simulate: Sequence needs at least one value")
	}
	var mu sync.Mutex
	i := 0
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	}
}

// Weight pairs an outcome with its relative weight.
type Weight[T any] struct {
	Value  T
	Weight float64
}

// Table is an immutable weighted outcome distribution.
type Table[T any] struct {
	weights []Weight[T]
	total   float64
}

// NewTable builds a table. Weights must be non-negative and sum to more
// than zero. Entries keep their order: a draw falls into the first entry
// whose cumulative share exceeds it.
func NewTable[T any](weights ...Weight[T]) (*Table[T], error) {
	if len(weights) == 0 {
		return nil, fmt.Errorf("simulate: table has no outcomes")
	}
	total := 0.0
	for _, w := range weights {
		if w.Weight < 0 {
			return nil, fmt.Errorf("simulate: negative weight %v for %v", w.Weight, w.Value)
		}
		total += w.Weight
	}
	if total <= 0 {
		return nil, fmt.Errorf("simulate: weights sum to zero")
	}
	return &Table[T]{
		weights: append([]Weight[T](nil), weights...),
		total:   total,
	}, nil
}

// MustTable is NewTable for static tables; it panics on error.
func MustTable[T any](weights ...Weight[T]) *Table[T] {
	t, err := NewTable(weights...)
	if err != nil {
		panic(err)
	}
	return t
}

// Pick maps r in [0,1) onto an outcome. Values outside the range are
// clamped to the first or last outcome.
func (t *Table[T]) Pick(r float64) T {
	x := r * t.total
	acc := 0.0
	for _, w := range t.weights {
		acc += w.Weight
		if x < acc {
			return w.Value
		}
	}
	return t.weights[len(t.weights)-1].Value
}

// Probability returns the share of draws that yield value.
func Probability[T comparable](t *Table[T], value T) float64 {
	sum := 0.0
	for _, w := range t.weights {
		if w.Value == value {
			sum += w.Weight
		}
	}
	return sum / t.total
}
