// Package dataset holds the in-memory index of dataset entries and the two
// pipelines that fill and persist it.
//
// # Identity Cache
//
// Cache owns every Entry in an arena and indexes it two ways: by category
// path (the file partition an entry was read from) and by generated id.
// Both indices point at the same *Entry; nothing is copied.
//
// # Ingest
//
// Ingester reads every <root>/<tree>/**/*.json file, parses and validates
// it, stamps the tag implied by each category path, derives an id for
// every entry and inserts it into a Cache. The first error aborts the run.
//
// # Write
//
// Writer takes the buckets of one tree out of a Cache, normalizes every
// entry (location set, lowercased match lists, sorted keys), orders the
// entries by display name and rewrites <root>/<tree>/<key>/<value>.json.
//
// # Ids
//
// An id is <slug of the name>-<first 6 hex digits of md5("<tkv> <location id>")>.
// It depends only on the category path, the resolved location and the
// name, so unchanged entries keep their id across runs.
package dataset
