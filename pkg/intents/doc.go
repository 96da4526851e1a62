/*
Package intents provides the built-in intent table of the responder and the static
reply catalog behind it.

The catalog (triggers, replies, FAQ, mood hint, fallback) is embedded as YAML and can
be partially overridden from a file with LoadCatalog. The order of the intents is fixed
in code (see Order) because it encodes matching priority.
*/
package intents
