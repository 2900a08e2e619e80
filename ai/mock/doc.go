// Package mock provides deterministic test doubles for the ai package
// interfaces, so pipeline and search logic can be tested without an ONNX
// runtime or a running embedding service.
//
// Mock constructors return CONCRETE types to enable test assertions and
// behavior injection via function fields (EvaluateFunc, EncodeTextFunc)
// and CallCount().
package mock
