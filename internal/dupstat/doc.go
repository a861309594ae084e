// Package dupstat implements duplicate file detection across directory trees.
//
// It scans one or more roots concurrently, partitions the discovered files
// by exact byte size, verifies same-size candidates with a fast streaming
// content hash, and aggregates the confirmed duplicate groups into a report
// ranked by wasted disk space.
package dupstat
