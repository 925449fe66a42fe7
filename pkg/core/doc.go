// Package core defines the shared language of the leapmt pipeline.
//
// This package contains:
//   - Domain entities (TranslationPair)
//   - Connection configuration shared by every store backend (StoreConfig)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
