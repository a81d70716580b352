/*
Package crypto provides the ed25519 keys and signatures used to authenticate
transactions.

A public key is turned into a condition of the "sigs" extension. Only the
x/sigs decorator grants that condition, after verifying a signature made with
the matching private key.
*/
package crypto
