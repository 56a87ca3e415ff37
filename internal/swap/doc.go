// Package swap drives the cross-chain token swap lifecycle against the
// external relayer API: quote, secret generation, order creation,
// submission, fill monitoring, and secret disclosure.
//
// Every relayer call is wrapped by the retry executor so that
// rate-limit responses back off and retry while all other failures
// surface immediately. Fill monitoring runs as a detached background
// task per order, tracked through a supervisory handle.
package swap
