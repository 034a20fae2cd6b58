// Package specforge generates executable test suites from API and source-code
// specifications.
//
// specforge consumes one of three specification dialects — an HTTP contract
// document, a dynamically-typed function source file, or a statically-typed
// function source file — and deterministically compiles it into a
// comprehensive test suite for a target framework. Given the same input and
// configuration, two runs of the pipeline produce byte-identical output.
//
// # Overview
//
// The generation pipeline is organized into packages matching the five
// tightly-coupled subsystems it implements:
//
//   - ir: the dialect-neutral intermediate representation and its schema
//     constraint vocabulary
//   - dialect: the pluggable parser registry plus the http-contract,
//     dynamic-source, and typed-source parsers
//   - intent: dialect-aware enumeration of test scenarios from an operation's
//     schema
//   - payload: golden-record construction and per-intent mutation
//   - fixture: cross-operation resource dependency analysis and setup/
//     teardown planning
//   - render: template-driven test source generation
//   - llm: optional, structure-preserving payload enrichment behind a
//     circuit breaker
//   - pipeline: the driver sequencing all of the above and persisting
//     artifacts to a Store
//
// See DESIGN.md in the module root for the grounding of each package's
// design against its reference material.
package specforge
