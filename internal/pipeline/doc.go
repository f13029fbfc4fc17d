// Package pipeline provides a framework for executing analysis steps in
// sequence over a single image's scan report.
//
// Each image passes through multiple stages: decoding the file into a pixel
// buffer, LSB steganalysis across the color channels, and metadata
// extraction. Each stage is implemented as a Step that receives the current
// report and can modify it.
//
// Design decision: We use a pipeline pattern instead of direct function calls
// because:
// 1. It allows easy addition/removal of steps without modifying core logic
// 2. It provides consistent error handling and logging across steps
// 3. It supports cancellation via context for long-running batch scans
//
// The pipeline supports both single-image analysis and batch processing with
// concurrency control using errgroup. The analysis itself is deterministic
// and side-effect-free, so images are embarrassingly parallel.
package pipeline
