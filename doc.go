/*
Package htlc holds the types shared by the atomic swap application: the
store interfaces, transactions and handlers, block information and the
payment instructions handed back to the host.

Every handler call receives a BlockInfo with the height, time and chain id
of the block being processed. Handlers never read the wall clock.
*/
package htlc
