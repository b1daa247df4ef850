// Package asaas is the HTTP client for the Asaas v3 payment API.
//
// Every attempt goes through the rate limit governor: ThrottleIfNeeded before the
// request, Observe on the response headers whatever the status. Responses are
// classified into four error kinds:
//
//   - ThrottleError (403, 429): retried after a short fixed delay
//   - TransportError (network failures, 5xx, open circuit): retried
//   - NotFoundError (404): returned immediately
//   - ValidationError (400, 401, 422, undecodable body): returned immediately
//
// Retries run in a bounded loop and never exceed MaxRetries+1 attempts. Each kind
// matches a sentinel (ErrThrottled, ErrTransport, ErrNotFound, ErrValidation)
// with errors.Is.
package asaas
