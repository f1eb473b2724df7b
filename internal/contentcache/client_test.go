package contentcache

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Value string `json:"value"`
}

type countingClient struct {
	calls atomic.Int32
	fail  atomic.Bool
	value string
}

func (c *countingClient) MakeRequest(
	_ context.Context,
	_ *genqlientgraphql.Request,
	resp *genqlientgraphql.Response,
) error {
	c.calls.Add(1)
	if c.fail.Load() {
		return errors.New("upstream down")
	}

	raw, err := json.Marshal(payload{Value: c.value})
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, resp.Data)
}

func doRequest(t *testing.T, client genqlientgraphql.Client, query string, vars interface{}) (payload, error) {
	t.Helper()

	var data payload
	err := client.MakeRequest(
		context.Background(),
		&genqlientgraphql.Request{OpName: "Op", Query: query, Variables: vars},
		&genqlientgraphql.Response{Data: &data},
	)
	return data, err
}

func TestClientServesRepeatedQueriesFromStore(t *testing.T) {
	upstream := &countingClient{value: "fresh"}
	client := NewClient(upstream, newTestMemoryStore(t), time.Hour, nil)

	first, err := doRequest(t, client, "query Op { a }", map[string]int{"limit": 5})
	require.NoError(t, err)
	second, err := doRequest(t, client, "query Op { a }", map[string]int{"limit": 5})
	require.NoError(t, err)

	assert.Equal(t, "fresh", first.Value)
	assert.Equal(t, "fresh", second.Value)
	assert.Equal(t, int32(1), upstream.calls.Load())

	_, err = doRequest(t, client, "query Op { a }", map[string]int{"limit": 6})
	require.NoError(t, err)
	assert.Equal(t, int32(2), upstream.calls.Load())
}

func TestClientDoesNotCacheFailures(t *testing.T) {
	upstream := &countingClient{value: "fresh"}
	upstream.fail.Store(true)
	store, _ := newTestRedisStore(t)
	client := NewClient(upstream, store, time.Hour, nil)

	_, err := doRequest(t, client, "query Op { a }", nil)
	require.Error(t, err)

	upstream.fail.Store(false)
	data, err := doRequest(t, client, "query Op { a }", nil)
	require.NoError(t, err)
	assert.Equal(t, "fresh", data.Value)
	assert.Equal(t, int32(2), upstream.calls.Load())
}

func TestClientBypassesMutationsAndZeroTTL(t *testing.T) {
	upstream := &countingClient{value: "fresh"}
	client := NewClient(upstream, newTestMemoryStore(t), time.Hour, nil)

	for i := 0; i < 2; i++ {
		_, err := doRequest(t, client, "mutation Op { a }", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), upstream.calls.Load())

	noTTL := NewClient(upstream, newTestMemoryStore(t), 0, nil)
	for i := 0; i < 2; i++ {
		_, err := doRequest(t, noTTL, "query Op { a }", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(4), upstream.calls.Load())
}

func TestRequestKeyDependsOnQueryAndVariables(t *testing.T) {
	base, err := requestKey(&genqlientgraphql.Request{OpName: "Op", Query: "q1", Variables: map[string]string{"tag": "go"}})
	require.NoError(t, err)
	sameAgain, err := requestKey(&genqlientgraphql.Request{OpName: "Op", Query: "q1", Variables: map[string]string{"tag": "go"}})
	require.NoError(t, err)
	otherVars, err := requestKey(&genqlientgraphql.Request{OpName: "Op", Query: "q1", Variables: map[string]string{"tag": "js"}})
	require.NoError(t, err)
	otherQuery, err := requestKey(&genqlientgraphql.Request{OpName: "Op", Query: "q2", Variables: map[string]string{"tag": "go"}})
	require.NoError(t, err)

	assert.Equal(t, base, sameAgain)
	assert.NotEqual(t, base, otherVars)
	assert.NotEqual(t, base, otherQuery)
}
