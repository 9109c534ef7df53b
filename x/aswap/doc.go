/*
Package aswap implements a hashed timelock contract (HTLC) atomic swap.

Funds are locked in a swap under the sha256 hash of a secret preimage and an
expiration. Revealing the preimage before the swap expires releases the funds
to the recipient. Once expired, anyone can refund the funds to the original
depositor. Each swap is resolved exactly once and deleted afterwards.

The algorithm is as follows:
1. Party A generates a 32 byte preimage and keeps it secret.
2. A creates a swap for B with sha256(preimage) and a deadline.
3. B, having observed the hash, creates a swap for A on another ledger,
using the same hash and an earlier or equal deadline.
4. A releases B's swap with the preimage, making it public.
5. B uses the now public preimage to release A's swap.
6. If any side is not released before its deadline, it can be refunded.

Funds are either native coins attached to the create transaction, or tokens
of an external token ledger that notifies this extension about the deposit
with a ReceiveMsg. Handlers never move value themselves. Release and refund
return instructions that the host executes after the state is committed.
*/
package aswap
