// Package client contains the remote side of the paperkeeper client.
//
// # Overview
//
// The package provides:
//  1. A transport-agnostic contract for the paper collection (see the Client
//     interface): FetchPage, Search, FetchDetail, DeleteByID and the multipart
//     CreatePaper/UpdatePaper submissions.
//  2. A concrete HTTP/JSON implementation (see HTTPClient) that injects the
//     session ID token as a Bearer credential, tags every request with an
//     X-Request-Id, normalizes the two accepted list shapes ({"papers": [...]}
//     and a bare array) into models.Page and maps HTTP statuses to sentinel
//     errors.
//  3. IdentityClient, which asks the identity provider whether the signed-in
//     user's email has been verified.
//
// # Error Handling
//
// Every transport failure or non-2xx status matches ErrNetwork. Non-2xx
// statuses are reported as *StatusError; 401 and 403 additionally match
// ErrUnauthorized. FetchDetail reports a missing id as ErrNotFound. No call
// is retried.
//
// Concurrency & Contexts
//
// HTTPClient and IdentityClient are safe for concurrent use. All operations
// accept context.Context and honor cancellation and deadlines.
package client
