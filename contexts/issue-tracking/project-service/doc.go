// Package projectservice implements the issue side of cross-service sync:
// projects, their contributor lists, and the handlers that apply team renames
// and user project-list changes coming from the identity service.
//
// Layering:
// - domain: project entity and errors
// - application: commands and sync workers using explicit ports
// - ports: persistence and publish boundaries
// - adapters: HTTP, memory, postgres, and sync event publisher implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - A project is addressed by its owner/name reference.
// - Contributors are usernames owned by the identity service.
package projectservice
