/*
Package deploy implements installation of contract templates and
deterministic deployment of contract instances.

A template is identified by the sha256 hash of its code. The address of an
instance only depends on the template, the deployer and a salt, so it can be
computed before the instance exists. Deploying twice to the same address
fails with ErrCollision.
*/
package deploy
