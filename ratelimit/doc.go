// Package ratelimit implements sliding-window request limiting per client.
//
// Each client may make a fixed number of requests within a trailing window
// (30 per 60 seconds by default). A rejected request learns how long to wait
// until its oldest counted request leaves the window.
//
// MemoryLimiter serves a single process. RedisLimiter shares the limit
// across processes through one sorted set per client.
package ratelimit
