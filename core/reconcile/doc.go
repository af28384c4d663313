// Package reconcile compares a local copy of a set of entities against a
// remote store and reports, per entity, which side holds it and which fields
// differ.
//
// Both sides are loaded concurrently through an Adapter. Built indexes can be
// kept for a TTL; concurrent requests for the same index share one build.
//
//	spec := &reconcile.Spec{Adapter: adapter, Keys: []string{identity}}
//	report, err := reconcile.ReconcileAll(ctx, spec)
//
// Reconciliation is read only. Acting on a mismatch is left to the caller.
package reconcile
