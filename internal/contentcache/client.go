package contentcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"go.uber.org/zap"
)

// Client serves repeated GraphQL queries from a Store until the TTL expires,
// then revalidates against the upstream client. Failed requests are not
// stored.
type Client struct {
	next   genqlientgraphql.Client
	store  Store
	ttl    time.Duration
	logger *zap.Logger
}

func NewClient(next genqlientgraphql.Client, store Store, ttl time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.Named("contentcache"),
	}
}

func (c *Client) MakeRequest(
	ctx context.Context,
	req *genqlientgraphql.Request,
	resp *genqlientgraphql.Response,
) error {
	if !c.cacheable(req, resp) {
		return c.next.MakeRequest(ctx, req, resp)
	}

	key, err := requestKey(req)
	if err != nil {
		c.logger.Warn("cache key", zap.String("op", req.OpName), zap.Error(err))
		return c.next.MakeRequest(ctx, req, resp)
	}

	cached, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		c.logger.Warn("cache read failed", zap.String("op", req.OpName), zap.Error(err))
	case ok:
		if err := json.Unmarshal(cached, resp.Data); err == nil {
			c.logger.Debug("cache hit", zap.String("op", req.OpName))
			return nil
		}
		c.logger.Warn("cache entry undecodable", zap.String("op", req.OpName))
	}

	if err := c.next.MakeRequest(ctx, req, resp); err != nil {
		return err
	}
	if len(resp.Errors) > 0 {
		return nil
	}

	payload, err := json.Marshal(resp.Data)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("op", req.OpName), zap.Error(err))
		return nil
	}
	if err := c.store.Set(ctx, key, payload, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("op", req.OpName), zap.Error(err))
	}

	return nil
}

func (c *Client) Close() error {
	if c.store == nil {
		return nil
	}
	return c.store.Close()
}

func (c *Client) cacheable(req *genqlientgraphql.Request, resp *genqlientgraphql.Response) bool {
	if c.store == nil || c.ttl <= 0 || req == nil || resp == nil || resp.Data == nil {
		return false
	}

	return !strings.HasPrefix(strings.TrimSpace(req.Query), "mutation")
}

func requestKey(req *genqlientgraphql.Request) (string, error) {
	variables, err := json.Marshal(req.Variables)
	if err != nil {
		return "", fmt.Errorf("encode variables: %w", err)
	}

	sum := sha256.New()
	sum.Write([]byte(req.Query))
	sum.Write([]byte{0})
	sum.Write(variables)

	return req.OpName + ":" + hex.EncodeToString(sum.Sum(nil)), nil
}
