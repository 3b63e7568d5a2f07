// Package sheets wraps the Google Sheets API behind a rate-limited,
// read-only client.
//
// The external API enforces a per-minute request quota, so every outbound
// call goes through a RateLimiter that tracks the request count per 60s
// window and an adaptive backoff delay. Quota rejections (HTTP 429, or 403
// with a rate-limit reason) are retried in place with exponential backoff up
// to a bounded attempt count; any other error propagates immediately.
//
// Limiter state is scoped to one client instance and reset explicitly at the
// start of each full sync run. The pipeline is single-threaded, which is what
// makes the shared counters safe without locking.
//
// The Client interface makes the API surface mockable for tests (see
// core/sheets/mocks).
package sheets
