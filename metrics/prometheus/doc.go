// Package prometheus exports crossrank metrics through a Prometheus registry.
//
//	c := prometheus.NewCollector()
//	eng, _ := crossrank.New(crossrank.WithMetricsCollector(c))
//	// ... run ...
//	_ = c.WriteTextfile("/var/lib/node_exporter/crossrank.prom")
//
// Batch runs usually end before a scrape happens, so the registry can be
// written to a node-exporter textfile instead of being served over HTTP.
package prometheus
