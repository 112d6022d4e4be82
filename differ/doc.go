// Package differ implements the model differ (component Δ): given two
// fully preprocessed model.Store snapshots of the same service, it
// produces a structured add/drop/modify plan for migrating a deployed
// database, per spec.md §4.6. The plan itself carries no SQL — turning it
// into dialect-specific ALTER TABLE statements is render/sqlrender's job
// (render/sqlrender.Migrate), keeping the comparison logic independent of
// any one backend's statement syntax.
package differ
