// Package metrics defines the sinks that record decision passes for
// observability. Implementations live in infra/metrics and are built from
// configuration through the factory registry; configuring several sinks
// yields a MultiSink.
package metrics
