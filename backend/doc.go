// Package backend defines the execution surface for routed work items and
// ships three implementations: a scripted stub, a chat-completion backend
// on the llm package, and a worker-process backend speaking JSON over
// stdin/stdout.
//
// Cross-cutting behavior is layered with Middleware:
//
//	b, _ := backend.NewSubprocess(cfg)
//	wrapped := backend.Chain(
//		backend.WithRecovery(),
//		backend.WithLogging(log),
//		backend.WithTracing(),
//	)(b)
//
// Backends are created by name through a Registry of factories;
// DefaultRegistry carries the built-ins.
package backend
