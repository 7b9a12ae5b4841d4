// Package ipc implements the request channel between the simulation host
// and the external tool-decision runtime.
//
// The channel serializes tool invocations through a single outstanding HTTP
// exchange. Submit never blocks on the network: requests join an unbounded
// FIFO backlog, the head is sent as soon as the in-flight slot frees up, and
// outcomes are delivered on a result stream in strict submission order.
// Submit returns an Ack (acceptance, correlation id, queue position), never
// a result; the eventual Result carries either a decoded Response or a
// classified error.
//
// Failures are per-request. A transport error, remote rejection, or
// undecodable body produces a failure Result tagged with the originating
// request's context, the in-flight slot is cleared, and the next queued item
// is sent. The channel never retries on its own; callers decide whether to
// resubmit. A stalled exchange blocks the queue until the transport timeout
// fires, which is why a finite timeout is part of the transport contract.
package ipc
