// Package metrics provides the observability hooks of generation runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection never needs nil checks:
//
//	gen := site.NewGenerator(cfg)            // NoopRecorder
//	gen.Recorder = metrics.NewPrometheusRecorder(reg)
//
// PrometheusRecorder registers its collectors on the given registry and
// HTTPHandler serves that registry for scraping.
package metrics
