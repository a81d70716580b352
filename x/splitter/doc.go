/*
Package splitter implements a pro-rata distribution engine.

A splitter instance owns a fixed list of recipients with integer share
weights for a single asset. Distributing pays every recipient
floor(balance*weight/total) of the balance the instance holds. The remainder
left by the rounding stays with the instance.

An instance is initialized exactly once. While a distribution is in flight
the instance is locked, so a receiver hook that calls back into Distribute
is rejected with ErrReentrancy. The lock is persisted state: a failed call
relies on the savepoint of the host to discard it together with all other
writes, and is also released explicitly on every error path.
*/
package splitter
