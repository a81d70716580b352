/*
Package factory deploys and configures splitter instances.

A factory is an account that was initialized with the id of an installed
template. Creating a splitter through the factory derives a salt, deploys a
new instance of the template at an address computed from the template id,
the factory address and the salt, and initializes the splitter of that
instance in the same transaction. A "created" event carrying the instance
address is published for every successful creation.

Two salt policies exist and are never mixed. The content policy derives the
salt from the asset, so a factory creates at most one splitter per asset.
The context policy uses the salt provided by the caller or, without one,
derives it from the block height and time.
*/
package factory
