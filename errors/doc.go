// Package errors provides the structured error type used by isoclient for
// failures the client itself originates (bad input, body encoding, missing
// platform capabilities). Transport and interceptor errors are never wrapped
// in an AppError; they reach the caller exactly as they were produced.
package errors
