// Package ingestion provides pipeline orchestration for feeding image
// documents into the index.
//
// The Pipeline type manages the feed workflow for image documents, including:
//   - Decoding and preprocessing image payloads into model input tensors
//   - Evaluating the visual embedding model
//   - Storing documents with their unit-norm embedding vectors
//
// Processing is performed concurrently using a worker pool to maximize
// throughput. Failures on individual records are reported per item and do not
// abort the rest of the batch unless strict validation is enabled.
package ingestion
