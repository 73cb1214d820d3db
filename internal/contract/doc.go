// Package contract is the typed client boundary to the royalty contract.
//
// The package defines:
//
//   - [Client]: the five contract operations plus transaction watching
//   - [ABI]: the embedded interface description calls are checked against
//   - [Caller]: binds a Client to the connected wallet
//   - [Simulated]: an in-memory chain used by the dashboard and tests
//
// Mutating calls are fire-and-forget. Each returns a [TxHash] at once and
// reports pending, confirming, confirmed or failed on [Client.Watch].
// Reverts are never retried.
package contract
