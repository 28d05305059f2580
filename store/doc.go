// Package store provides a Redis-backed corpus store and assembly work
// queue: named assembled corpora are persisted as JSON values with a
// metadata registry, raw statement batches flow through work queues to
// assembly workers, and finished results are published on job-specific
// pub/sub channels.
package store
