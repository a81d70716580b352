/*
Package events implements an append-only log of records published by
extensions, for example the creation of a new splitter instance.

Each event gets a sequential identifier and is indexed by its topic and
emitter so clients can follow what a contract did.
*/
package events
