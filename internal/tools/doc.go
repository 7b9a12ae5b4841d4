// Package tools tracks the capabilities the external runtime exposes and
// gates tool invocations before they reach the request channel.
//
// A Schema names a tool and its parameters. Execute rejects unknown tools
// and invocations missing required parameters locally, then submits the
// request; everything else, including parameter typing, is the runtime's
// responsibility.
package tools
