// Package driving defines the inbound ports: the use cases the CLI (or any
// other primary adapter) drives the core through.
package driving
