// Package pipeline provides a framework for processing a document through
// a sequence of steps.
//
// A file is read, cleaned of mojibake, optionally decorated, written back
// and recorded in the run history. Each stage is implemented as a Step that
// receives the current document and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context between steps
//
// The pipeline supports both individual files and batch processing with
// concurrency control using errgroup.
package pipeline
