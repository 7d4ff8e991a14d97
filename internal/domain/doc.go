// Package domain contains the core business entities and errors of the
// storefront: users and products, plus the typed partial-update structures
// accepted by the stores. It is independent of any specific infrastructure
// or delivery mechanism.
package domain
