// Package onprem implements an idempotent client for the Admin API of a
// self-hosted Kong Gateway.
//
// Every entity type (service, route, consumer, plugin, upstream, target and
// node) is described by a static Resource record: a typed field schema, the
// path templates of the entity and its collection, the create strategy the
// Admin API supports for it and the actions it exposes. A single Client runs
// the shared operation templates (read, upsert, delete, toggle) against those
// records and reports every outcome, including validation and transport
// failures, as a Result.
package onprem
