// Package api implements the JSON HTTP surface: document ingest, corpus
// listing, question answering, and liveness/readiness probes.
//
// Handlers depend on small consumer-defined interfaces (Asker, Ingester,
// DocumentLister) so they can be tested with in-memory fakes; production
// wiring plugs in internal/rag and internal/knowledge.
package api
