// Package idinfer implements ID Inference (spec.md §4.2): annotating
// each Endpoint with id_pools, a mapping from parameter name to the
// set of observed identifier values split by inferred scalar type.
package idinfer

import "github.com/surfacerecon/surfacerecon/internal/limits"

// BucketCap is the maximum number of distinct values retained per
// IDPool bucket (spec.md §3).
var BucketCap = limits.Default().MaxPoolBucket

// appendCapped appends value to bucket if it is not already present
// and the bucket has not reached BucketCap, preserving first-seen
// order.
func appendCapped(bucket []string, value string) []string {
	return limits.AppendDistinctCapped(bucket, value, BucketCap)
}
