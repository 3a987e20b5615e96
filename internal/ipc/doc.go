// Package ipc provides the asynchronous request/response contract between
// the capture source, the CLI, and the daemon: JSON-RPC over a Unix domain
// socket. Every capture command maps to one RPC; responses are returned when
// the underlying work completes. Operational failures inside a handler are
// logged and reported through the response payload rather than as RPC
// errors, so a misbehaving store never crashes the dispatch loop.
package ipc
