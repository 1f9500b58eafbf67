// Package storage defines the persistence contracts for the paper registry.
//
// The registry holds Papers and their Chunks — the durable inputs from which
// the embedding index and the knowledge graph are derived. Derived state is
// deliberately not stored here: both are rebuilt in full from the registry on
// every rebuild.
//
// The storage/badger sub-package provides the production implementation on
// BadgerDB, including an in-memory mode for tests.
package storage
