// Package metrics exposes pipeline activity as Prometheus metrics.
//
// Monitor implements pipeline.Monitor and owns a private registry, so
// several monitors can coexist in one process and tests can inspect them
// with prometheus/testutil.
package metrics
