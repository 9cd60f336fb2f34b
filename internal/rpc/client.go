// Package rpc is a websocket JSON-RPC client for the Substrate node API.
package rpc

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/log"
	gethrpc "github.com/ethereum/go-ethereum/rpc"

	"github.com/dmagro/subspace-cli/internal/stats"
)

type Client struct {
	url     string
	c       *gethrpc.Client
	latency *stats.Recorder
}

// Dial connects to a node. ws:// and wss:// URLs open a websocket; the
// connection is established before Dial returns.
func Dial(ctx context.Context, url string) (*Client, error) {
	c, err := gethrpc.DialContext(ctx, url)
	if err != nil {
		return nil, newTransportError("dial", err)
	}
	log.Debug("Connected to node", "url", url)
	return NewClient(url, c), nil
}

// NewClient wraps an already connected go-ethereum RPC client.
func NewClient(url string, c *gethrpc.Client) *Client {
	return &Client{url: url, c: c, latency: stats.NewRecorder()}
}

func (c *Client) URL() string { return c.url }

// Latency summarises every call made so far, per method.
func (c *Client) Latency() []stats.TailLatency { return c.latency.Summary() }

func (c *Client) Close() {
	c.c.Close()
}

// Call executes one JSON-RPC request and decodes the result into result.
// There is no retry: the first failure is returned as a *TransportError.
func (c *Client) Call(ctx context.Context, result interface{}, method string, params ...interface{}) error {
	start := time.Now()
	err := c.c.CallContext(ctx, result, method, params...)
	latency := time.Since(start)
	c.latency.Record(method, latency)

	if err != nil {
		log.Debug("RPC call failed", "method", method, "latency", latency, "err", err)
		return newTransportError(method, err)
	}
	log.Trace("RPC call", "method", method, "latency", latency)
	return nil
}
