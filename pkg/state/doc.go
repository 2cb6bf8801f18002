// Package state provides the primitives shared by every tr-cafe state
// container: a mutex-guarded reactive Signal, the serialized Loop that all
// store mutations re-enter through, and the Status lifecycle shared by
// asynchronous operations.
//
// Stores own their slice of state exclusively. Reads are snapshot reads
// (Peek/Get return copies of the stored value); mutations are functions
// dispatched onto a Loop so that no two reducers ever run concurrently.
package state
