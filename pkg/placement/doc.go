// Package placement implements the dialog protocol that turns a dropped field
// template into a placed field:
//
//	idle -> awaiting-label -> awaiting-required -> awaiting-options (select) -> committed
//	                     \-> aborted
//
// Sessions advance on explicit events (SubmitLabel, SubmitRequired,
// SubmitOptions, Cancel) so the protocol can be driven asynchronously by an
// HTTP client or synchronously through Place and a prompt.Driver. Only one
// placement runs at a time per session.
package placement
