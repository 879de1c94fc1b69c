// Package rag implements the retrieval-augmented query pipeline.
//
// Two orchestrators share one document store:
//
//	Indexer (ingest path):
//	    content -> Embedder -> Store.Insert -> id
//
//	System (query path):
//	    question -> Embedder -> Store.NearestNeighbors -> AssembleContext
//	             -> Generator -> answer + sources
//
// The Embedder, Generator, and Store dependencies are consumer-defined
// interfaces (like io.Reader or http.RoundTripper), so tests substitute
// fakes and production wires the llm and knowledge implementations.
//
// A query against an empty corpus short-circuits to a fixed canned answer
// with no sources; the generator is never called in that case.
package rag
