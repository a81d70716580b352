/*

Package gconf implements a configuration store intended to be used as a global,
in-database configuration.

Each extension owns a single configuration object, stored under the
"_c:<package name>" key. The configuration is loaded from the "conf" section
of the genesis file. An extension that finds no configuration in the database
falls back to its defaults.

*/
package gconf
