// Package tasks applies batches of change commands to a catalog with real-time progress reporting.
//
// # Change Processing
//
// [Processor.Apply] walks a decoded change list in order. For each entry it:
//
//  1. Reads the "type" discriminator (entry must be an object with a string type)
//  2. Checks the entry against the matching schema from the schema package
//  3. Dispatches to the matching [Mutator] method
//
// Processing stops at the first failure. Commands applied before it stay applied; there is no rollback.
// Unrecognized types fail with shared.ErrUnknownCommand.
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates.
//
// The [ProgressUpdate] struct contains phase, step counters, a message, and the typed change as data.
// Updates use select with default so a slow or absent reader never stalls processing.
package tasks
