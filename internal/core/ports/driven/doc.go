// Package driven defines the outbound ports: interfaces the core services
// depend on and the adapters implement. Stores, AI providers and file
// sources all plug in here. AI ports are optional; services must degrade
// gracefully when they are nil.
package driven
