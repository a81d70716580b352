/*
Package lifetime keeps the block height until which a piece of state is
guaranteed to stay live.

Contract instances extend their lifetime whenever they are used. Once the
current height passes the recorded live-until height the state is expired
and must not be used. Keys that were never extended are not tracked and are
always live.
*/
package lifetime
