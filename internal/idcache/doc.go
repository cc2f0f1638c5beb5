// Package idcache resolves and caches external identifiers for ranked films.
//
// The cache is a durable mapping from internal record id to the resolved
// external identifier plus the title and year used to resolve it. Resolution
// is at-most-once per id across the cache's lifetime: negative outcomes (the
// film page carries no identifier link) are cached too, so a film is never
// fetched twice. The cache is owned by a single pipeline run; a file lock
// keeps concurrent runs from clobbering each other, and Flush rewrites the
// whole mapping atomically on every exit path.
package idcache
