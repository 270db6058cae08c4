// Package api exposes the search pipeline over HTTP.
//
// Routes:
//
//	GET /api/search?q=&locale=&period=&live=   run a search
//	GET /api/products                          list the product catalog
//	GET /metrics                               Prometheus metrics, when configured
//
// Invalid parameters produce 400 with a list of field errors. Clients over
// the rate limit receive 429 with a Retry-After header.
package api
