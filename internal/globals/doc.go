// Package globals composes the shared runtime context of a multi-application
// process. It resolves a configuration, builds the common context (config,
// logger, node services, constants), and folds every application's globals
// contribution over it in declared order. Later applications win on
// conflicting leaf values.
//
// Contributions are merged over the common context as well, so an
// application returning a "log", "node", "constants", or "config" key replaces
// that entry for everything downstream. The composer logs a warning when this
// happens but does not prevent it.
package globals
