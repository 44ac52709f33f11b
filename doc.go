// Package backend provides the Pulsefeed API server.

// This package contains the main application entry point. The actual API
// documentation is organized into subpackages:

// - internal/handlers: HTTP request handlers for all API endpoints
// - internal/models: Data models and database schemas
// - internal/auth: Identity providers and authentication middleware
// - internal/feed: Client-side feed session with optimistic reconciliation
// - internal/repository: Feed queries over the database
// - internal/database: Database connection and migrations
// - internal/middleware: HTTP middleware (request ids, logging, metrics)
// - internal/validation: Content and account field validation
// - internal/seed: Development data seeding

// See the individual package documentation for detailed API reference.
package backend
