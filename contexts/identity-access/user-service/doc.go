// Package userservice implements the identity side of cross-service sync:
// users, teams, and the handlers that keep each user's project list in step
// with the issue service.
//
// Layering:
// - domain: entities and errors
// - application: commands and sync workers using explicit ports
// - ports: persistence and publish boundaries
// - adapters: HTTP, memory, postgres, and sync event publisher implementations
// - transport: module-private DTOs for HTTP contracts
//
// Boundary notes:
// - Projects are owned by the issue service; users only hold owner/name references.
// - Publish failures never roll back a committed write.
package userservice
