// Package search defines the full-text search engine contract and the
// selector that picks an engine implementation from configuration.
//
// Two engines ship with the package: ElasticEngine talks to a remote
// Elasticsearch host over HTTP, and SQLEngine keeps documents in a local
// SQLite database with an FTS5 index. DefaultSelector uses the remote engine
// whenever an Elasticsearch host is configured and falls back to the local
// one otherwise.
package search
