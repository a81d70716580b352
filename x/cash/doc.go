/*
Package cash implements the asset ledger used by splitters.

Every asset is identified by an address, usually the address of the
condition that is allowed to mint it. Balances are kept per (asset, holder)
pair as signed 64 bit integers.

Contract addresses can register a Receiver that is called after a transfer
to them lands. Receivers run arbitrary code, including further transfers,
which is why callers that move funds must guard themselves against being
called again before they finish.
*/
package cash
