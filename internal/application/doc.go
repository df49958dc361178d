// Package application provides process initialization and dependency wiring.
// It encapsulates the creation of the globals composer and the layer policy
// check, making the main package cleaner and more focused on CLI parsing and
// orchestration.
package application
