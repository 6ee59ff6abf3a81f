// Package engine wires all ChainSign subsystems together and exposes
// the workflow operations: Submit, Approve, Reject, and the read paths.
//
// This package exists to break the import cycle: the root chainsign
// package defines Entity and Identity (imported by document, approver,
// event, etc.) and so cannot import those packages back. The engine
// package sits above all subsystem packages and below the application
// layer.
//
// All mutating operations run through the configured middleware chain
// and serialize per document: two concurrent decisions on the same
// document are applied one after the other, so exactly one of two
// competing approvals at the same cursor position succeeds.
package engine
