// Package middleware groups the Fiber middleware of the operator API.
//
//   - auth: static API key check (X-API-Key header or api_key query), with a
//     list of public paths such as /health and /metrics
//   - rayid: per-request ID stored in the context locals and echoed in the
//     X-Ray-ID response header, picked up by logger.WithRayID
package middleware
