// Package resource bounds the memory and read throughput of a run.
//
// The pairwise distance matrix is the only allocation that grows
// quadratically with the number of waters; it is reserved against the
// memory budget before it is built. Structure reads can be throttled so
// remote stores are not hammered when many chains are loaded at once.
package resource
