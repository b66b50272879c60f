// Package cache stores finished analyses keyed by the hash of their input.
//
// The cache is optional. A miss, a store failure and a disabled cache all
// lead to the same thing: the pipeline runs again and produces the same
// output, only slower.
//
// # Layout
//
//   - **Cache:** computes keys, encodes export.Document values, logs store failures.
//   - **Store:** a byte-oriented key/value backend. MemoryStore keeps a bounded
//     number of entries in process; GCSStore keeps one object per key in a bucket.
package cache
