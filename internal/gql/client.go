package gql

import (
	"net/http"
	"time"

	"easyblog/internal/config"
	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

const (
	requestTimeout    = 15 * time.Second
	defaultAuthScheme = "Bearer"
)

func NewClient(cfg config.Config) genqlientgraphql.Client {
	return NewClientWithTransport(cfg, http.DefaultTransport)
}

func NewClientWithTransport(cfg config.Config, base http.RoundTripper) genqlientgraphql.Client {
	if base == nil {
		base = http.DefaultTransport
	}

	client := &http.Client{
		Timeout: requestTimeout,
		Transport: &authTransport{
			base:   base,
			scheme: cfg.GraphQLAuthScheme,
			token:  cfg.GraphQLAuthToken,
		},
	}

	return genqlientgraphql.NewClient(cfg.GraphQLEndpoint, client)
}

// authTransport sends "Authorization: <scheme> <token>". The scheme defaults
// to Bearer; Payload also reads its JWTs under "JWT". An empty token sends no
// header.
type authTransport struct {
	base   http.RoundTripper
	scheme string
	token  string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.token == "" {
		return t.base.RoundTrip(req)
	}

	scheme := t.scheme
	if scheme == "" {
		scheme = defaultAuthScheme
	}

	clone := req.Clone(req.Context())
	clone.Header.Set("Authorization", scheme+" "+t.token)
	return t.base.RoundTrip(clone)
}
