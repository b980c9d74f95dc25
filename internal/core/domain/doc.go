// Package domain contains the core business entities for tender viability
// analysis: certificates (CATs), text chunks, requirements, outcomes and the
// final recommendation. It has no dependencies on adapters or services.
package domain
