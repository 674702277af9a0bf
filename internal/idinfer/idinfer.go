package idinfer

import (
	"strconv"
	"strings"

	"github.com/surfacerecon/surfacerecon/internal/classify"
	"github.com/surfacerecon/surfacerecon/internal/model"
	"github.com/surfacerecon/surfacerecon/internal/vocab"
)

// Infer annotates every Endpoint's IDPools in place.
func Infer(endpoints []*model.Endpoint) {
	for _, ep := range endpoints {
		ep.IDPools = pools(ep)
	}
}

func pools(ep *model.Endpoint) map[string]*model.IDPool {
	out := map[string]*model.IDPool{}

	for _, loc := range []string{model.LocationPath, model.LocationQuery} {
		params := ep.Parameters[loc]
		for name, values := range params {
			if !qualifiesGeneral(name, values) {
				continue
			}
			poolName := name
			if loc == model.LocationPath {
				poolName = resourceAwarePoolName(ep, name)
			}
			pool := out[poolName]
			if pool == nil {
				pool = &model.IDPool{Name: poolName, Location: loc}
				out[poolName] = pool
			}
			addValues(pool, values)
		}
	}

	for name, values := range ep.Parameters[model.LocationBody] {
		if !vocab.MatchesAny(name, vocab.IDNames) {
			continue
		}
		if !anyIDLike(values) {
			continue
		}
		poolName := "body." + name
		pool := out[poolName]
		if pool == nil {
			pool = &model.IDPool{Name: poolName, Location: model.LocationBody}
			out[poolName] = pool
		}
		addValues(pool, values)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

// qualifiesGeneral implements the path/query selection rule: name
// matches the ID vocabulary, or any observed value is int/uuid.
func qualifiesGeneral(name string, values []string) bool {
	if vocab.MatchesAny(name, vocab.IDNames) {
		return true
	}
	return anyIDLike(values)
}

func anyIDLike(values []string) bool {
	for _, v := range values {
		switch classify.Value(v) {
		case classify.KindInt, classify.KindUUID:
			return true
		}
	}
	return false
}

// resourceAwarePoolName derives a cross-endpoint-distinguishable pool
// name for a path parameter from the literal path segment preceding
// it (e.g. "/users/{id:int}" -> "users_id"), falling back to the
// synthetic param_N name when no such literal segment exists. Without
// this, two unrelated endpoints whose ID sits at the same segment
// index (both "param_1", say) would collide into a single pool in the
// cross-endpoint union and IDOR generation could never find an
// "other" pool to borrow an ID from.
func resourceAwarePoolName(ep *model.Endpoint, paramName string) string {
	idx, ok := paramIndex(paramName)
	if !ok {
		return paramName
	}

	segs := strings.Split(ep.TemplatedPath, "/")
	pos := idx + 1
	if pos <= 0 || pos >= len(segs) {
		return paramName
	}

	prev := segs[pos-1]
	if prev == "" || isPlaceholder(prev) {
		return paramName
	}

	return prev + "_id"
}

func paramIndex(paramName string) (int, bool) {
	const prefix = "param_"
	if !strings.HasPrefix(paramName, prefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(paramName, prefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

func isPlaceholder(segment string) bool {
	switch segment {
	case "{id:int}", "{id:uuid}", "{param}":
		return true
	default:
		return false
	}
}

func addValues(pool *model.IDPool, values []string) {
	for _, v := range values {
		switch classify.Value(v) {
		case classify.KindInt:
			pool.Integers = appendCapped(pool.Integers, v)
		case classify.KindUUID:
			pool.UUIDs = appendCapped(pool.UUIDs, v)
		default:
			pool.Strings = appendCapped(pool.Strings, v)
		}
	}
}
