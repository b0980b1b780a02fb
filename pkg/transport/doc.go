// Package transport provides the connections format sinks drain into.
//
// Conn writes each raw send to a network connection. RedisStream appends
// each raw send as one entry on a Redis stream, for relays that fan a
// source out to several servers.
//
// Both implement writer.Transport: one SendRaw is one write attempt and
// reports how many bytes were accepted. Sends are never retried here.
// Dial retries connection establishment only.
package transport
