// Package metrics defines the run metrics contract. Exporters live in
// infra/metrics.
package metrics
