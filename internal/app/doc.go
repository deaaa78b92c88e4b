// Package app wires the sheetsight web service together and manages its
// lifecycle.
//
// # Initialization Flow
//
//  1. Initialize logging from the loaded configuration
//  2. Initialize OpenTelemetry and the business metrics
//  3. Create the shared session store and the services
//  4. Build the chi router and middleware chain
//  5. Create the HTTP server
//
// # Middleware
//
// Requests pass RequestID, RealIP, OTel, StructuredLogger, the panic
// recoverer, SecurityHeaders, CORS and the rate limiter. Routes under /api
// also get a request deadline. /metrics serves the Prometheus registry.
//
// # Graceful Shutdown
//
// Run waits for SIGINT or SIGTERM, then drains the server within
// server.shutdown_timeout and flushes the telemetry providers. Errors are
// returned to main; the package never calls os.Exit.
package app
