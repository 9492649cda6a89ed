// Package metrics provides build metrics for feature browser runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no caller needs nil checks:
//
//	recorder := metrics.Recorder(metrics.NoopRecorder{})
//	if cfg.MetricsFile != "" {
//	    prom := metrics.NewPrometheusRecorder(nil)
//	    recorder = prom
//	    defer prom.WriteTextfile(cfg.MetricsFile)
//	}
//
// The Prometheus implementation is written as a node_exporter textfile
// after the run, which suits a single-shot generator better than an HTTP
// endpoint.
package metrics
