// Package models defines the persisted entities of the study planner.
//
// A roadmap is a strict four-level tree: [Plan] owns [Milestone]s, which own
// [Step]s, which own [Resource]s. Siblings are ordered by a zero-based
// OrderIndex. Every entity uses a typed UUID identifier that knows how to
// store itself in PostgreSQL/SQLite (driver.Valuer, sql.Scanner) and in
// SurrealDB (CBOR record id, tag 8).
package models
