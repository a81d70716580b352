/*

Package weave defines interfaces used throughout the splitter ledger, such as:
storage, transactions, handlers and the execution context.

Extensions living under x/ are building blocks that implement a single
concern each. The distribution engine (x/splitter) and the factory deploying
it (x/factory) are built on top of the asset ledger (x/cash), the deployment
capability (x/deploy), lifetime extension (x/lifetime) and the event log
(x/events). The host execution model, which guarantees that a failed call
leaves no state behind, lives in app and x/utils.

*/

package weave
