// Package scenepaint implements a retained scene / parallel tile-paint
// pipeline for a browser-style rendering engine.
//
// # Overview
//
// The pipeline has two halves. The scene half turns display-list updates
// into an optimized, cacheable scene: per-document transactions are applied
// by a dedicated scene-builder goroutine (package builder), which dedupes
// immutable scene data through content-addressed interners (package intern)
// and produces a BuiltScene plus an interner update diff (package scene).
// The paint half partitions a frame's visible area into tiles, fans the
// tiles out round-robin across a fixed pool of painter goroutines, and
// reassembles the painted buffers in request order (package paint), gated
// by an epoch check that rejects work against stale display lists.
//
// Rasterization itself is delegated to a DrawTarget implementation
// (package backend); the pipeline only sequences draw calls. Painted
// buffers flow to a Compositor (interface in package paint, an in-memory
// implementation in package compositor).
//
// This root package holds the identifiers, geometry, and logging plumbing
// shared by every stage.
//
// # Logging
//
// scenepaint produces no log output by default. Call SetLogger to enable:
//
//	scenepaint.SetLogger(slog.Default())
package scenepaint
