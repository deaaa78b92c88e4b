// Package errors maps failures from the normalization core and the
// services onto RFC 7807 problem responses.
//
// Core packages return plain Go errors (typed where the caller needs to
// distinguish them). Services wrap them or return *AppError sentinels.
// ErrorHandler is the single place that turns any of these into an HTTP
// status and a problem+json body.
package errors
