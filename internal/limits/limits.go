// Package limits centralizes the per-parameter and per-pool bounds
// named throughout spec.md (≤10 distinct values per parameter, ≤5
// sample bodies, ≤20 values per IDPool bucket) behind a single
// validated Bounds type, instead of scattering the same magic numbers
// as local constants across the modeler, ID inference, and test
// generator packages.
package limits

import "fmt"

// Bounds holds the cap values spec.md assigns to Endpoint, IDPool,
// and cross-endpoint pool construction.
type Bounds struct {
	// MaxParamValues caps the distinct values retained per
	// path/query/body parameter on an Endpoint (spec.md §3).
	MaxParamValues int `json:"max_param_values"`
	// MaxSampleBodies caps the distinct sample request bodies kept
	// per Endpoint (spec.md §3).
	MaxSampleBodies int `json:"max_sample_bodies"`
	// MaxPoolBucket caps each of an IDPool's three buckets
	// (integers/uuids/strings) (spec.md §3).
	MaxPoolBucket int `json:"max_pool_bucket"`
}

// Default returns the bounds spec.md mandates.
func Default() *Bounds {
	return &Bounds{
		MaxParamValues:  10,
		MaxSampleBodies: 5,
		MaxPoolBucket:   20,
	}
}

// Validate rejects non-positive or implausibly large bounds.
func (b *Bounds) Validate() error {
	if b.MaxParamValues <= 0 {
		return fmt.Errorf("MaxParamValues must be positive")
	}
	if b.MaxSampleBodies <= 0 {
		return fmt.Errorf("MaxSampleBodies must be positive")
	}
	if b.MaxPoolBucket <= 0 {
		return fmt.Errorf("MaxPoolBucket must be positive")
	}
	if b.MaxParamValues > 1000 {
		return fmt.Errorf("MaxParamValues too large (> 1000)")
	}
	if b.MaxSampleBodies > 1000 {
		return fmt.Errorf("MaxSampleBodies too large (> 1000)")
	}
	if b.MaxPoolBucket > 1000 {
		return fmt.Errorf("MaxPoolBucket too large (> 1000)")
	}
	return nil
}

// AppendDistinctCapped appends value to slice if it is not already
// present and the slice is under cap. It is the single shared
// implementation of the "distinct, capped" accumulation pattern used
// by Endpoint parameter collection, IDPool bucket growth, and the
// cross-endpoint pool union.
func AppendDistinctCapped(slice []string, value string, cap int) []string {
	for _, v := range slice {
		if v == value {
			return slice
		}
	}
	if len(slice) >= cap {
		return slice
	}
	return append(slice, value)
}
