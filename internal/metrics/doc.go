// Package metrics provides run and stage metrics for the generator.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	svc := build.NewService(build.WithRecorder(metrics.NoopRecorder{}))
//
// PrometheusRecorder registers its collectors on a caller supplied registry.
// A one-shot CLI run has no scrape endpoint, so the registry is flushed to a
// file in text exposition format for the node-exporter textfile collector:
//
//	rec := metrics.NewPrometheusRecorder(prom.NewRegistry())
//	defer rec.WriteTextfile("/var/lib/node_exporter/apidocgen.prom")
package metrics
