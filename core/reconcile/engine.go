package reconcile

import (
	"context"
	"sort"
)

// ReconcileAll compares every entity known to either side. It reuses a cached
// index when spec.CacheTTL is set.
func ReconcileAll(ctx context.Context, spec *Spec) (*Report, error) {
	var (
		idx *Index
		err error
	)
	if spec.CacheTTL > 0 {
		idx, err = GetOrBuildIndex(ctx, spec)
	} else {
		idx, err = BuildIndex(ctx, spec)
	}
	if err != nil {
		return nil, err
	}

	results := fromIndex(idx, spec.Adapter)
	return &Report{Results: results, Summary: Summarize(results)}, nil
}

// ReconcileOne compares a single entity. An entity absent from both sides
// yields a result with both presence flags false.
func ReconcileOne(ctx context.Context, spec *Spec, key string) (*Result, error) {
	one := &Spec{Adapter: spec.Adapter, Keys: []string{key}, CacheTTL: spec.CacheTTL}
	report, err := ReconcileAll(ctx, one)
	if err != nil {
		return nil, err
	}
	for _, r := range report.Results {
		if r.ID == key {
			return &r, nil
		}
	}
	return &Result{ID: key, Mismatch: []string{}}, nil
}

func fromIndex(idx *Index, adapter Adapter) []Result {
	union := make(map[string]struct{}, len(idx.Local)+len(idx.Remote))
	for key := range idx.Local {
		union[key] = struct{}{}
	}
	for key := range idx.Remote {
		union[key] = struct{}{}
	}

	results := make([]Result, 0, len(union))
	for key := range union {
		results = append(results, buildResult(key, idx, adapter))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}

func buildResult(key string, idx *Index, adapter Adapter) Result {
	local, localPresent := idx.Local[key]
	remote, remotePresent := idx.Remote[key]

	result := Result{
		ID:            key,
		LocalPresent:  localPresent,
		RemotePresent: remotePresent,
		Mismatch:      []string{},
	}

	var l, r Item
	if localPresent {
		l = local
	}
	if remotePresent {
		r = remote
	}
	result.Name = adapter.ResolveName(l, r)
	result.Metadata = adapter.Metadata(l, r)

	if localPresent && remotePresent {
		if diff := adapter.CompareFields(local, remote); len(diff) > 0 {
			result.Mismatch = diff
		}
	}
	return result
}
