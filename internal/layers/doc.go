// Package layers enforces a one-directional dependency rule over an ordered
// list of named layers: a layer may depend only on layers declared before it.
package layers
