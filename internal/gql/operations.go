package gql

import (
	"context"

	genqlientgraphql "github.com/Khan/genqlient/graphql"
)

const (
	OpPostsByTagBefore = "PostsByTagBefore"
	OpFirstPostByTag   = "FirstPostByTag"
	OpRankedPosts      = "RankedPosts"
	OpRecentPosts      = "RecentPosts"
	OpAllTags          = "AllTags"
)

const postFields = `
			slug
			title
			excerpt
			publishedAt
			rank
			tags {
				name
				color
			}`

const PostsByTagBefore_Operation = `
query PostsByTagBefore ($tag: String!, $before: DateTime!, $limit: Int!) {
	Posts(where: {AND: [{tags__name: {equals: $tag}}, {publishedAt: {less_than: $before}}, {_status: {equals: published}}]}, sort: "-publishedAt", limit: $limit) {
		docs {` + postFields + `
		}
	}
}
`

const FirstPostByTag_Operation = `
query FirstPostByTag ($tag: String!) {
	Posts(where: {AND: [{tags__name: {equals: $tag}}, {_status: {equals: published}}]}, sort: "publishedAt", limit: 1) {
		docs {` + postFields + `
		}
	}
}
`

const RankedPosts_Operation = `
query RankedPosts ($limit: Int!) {
	Posts(where: {AND: [{rank: {greater_than: 0}}, {_status: {equals: published}}]}, sort: "-rank", limit: $limit) {
		docs {` + postFields + `
		}
	}
}
`

const RecentPosts_Operation = `
query RecentPosts ($limit: Int!) {
	Posts(where: {_status: {equals: published}}, sort: "-publishedAt", limit: $limit) {
		docs {` + postFields + `
		}
	}
}
`

const AllTags_Operation = `
query AllTags {
	Tags(sort: "name", limit: 0) {
		docs {
			name
			color
		}
	}
}
`

type TagDoc struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type PostDoc struct {
	Slug        *string  `json:"slug"`
	Title       *string  `json:"title"`
	Excerpt     *string  `json:"excerpt"`
	PublishedAt *string  `json:"publishedAt"`
	Rank        *float64 `json:"rank"`
	Tags        []TagDoc `json:"tags"`
}

type PostsPage struct {
	Docs []PostDoc `json:"docs"`
}

type TagsPage struct {
	Docs []TagDoc `json:"docs"`
}

// PostsResponse is the shared response shape of every Posts query.
type PostsResponse struct {
	Posts *PostsPage `json:"Posts"`
}

type AllTagsResponse struct {
	Tags *TagsPage `json:"Tags"`
}

type postsByTagBeforeInput struct {
	Tag    string `json:"tag"`
	Before string `json:"before"`
	Limit  int    `json:"limit"`
}

type firstPostByTagInput struct {
	Tag string `json:"tag"`
}

type limitInput struct {
	Limit int `json:"limit"`
}

func PostsByTagBefore(
	ctx context.Context,
	client genqlientgraphql.Client,
	tag string,
	before string,
	limit int,
) (*PostsResponse, error) {
	return queryPosts(ctx, client, &genqlientgraphql.Request{
		OpName:    OpPostsByTagBefore,
		Query:     PostsByTagBefore_Operation,
		Variables: &postsByTagBeforeInput{Tag: tag, Before: before, Limit: limit},
	})
}

func FirstPostByTag(ctx context.Context, client genqlientgraphql.Client, tag string) (*PostsResponse, error) {
	return queryPosts(ctx, client, &genqlientgraphql.Request{
		OpName:    OpFirstPostByTag,
		Query:     FirstPostByTag_Operation,
		Variables: &firstPostByTagInput{Tag: tag},
	})
}

func RankedPosts(ctx context.Context, client genqlientgraphql.Client, limit int) (*PostsResponse, error) {
	return queryPosts(ctx, client, &genqlientgraphql.Request{
		OpName:    OpRankedPosts,
		Query:     RankedPosts_Operation,
		Variables: &limitInput{Limit: limit},
	})
}

func RecentPosts(ctx context.Context, client genqlientgraphql.Client, limit int) (*PostsResponse, error) {
	return queryPosts(ctx, client, &genqlientgraphql.Request{
		OpName:    OpRecentPosts,
		Query:     RecentPosts_Operation,
		Variables: &limitInput{Limit: limit},
	})
}

func AllTags(ctx context.Context, client genqlientgraphql.Client) (*AllTagsResponse, error) {
	req := &genqlientgraphql.Request{
		OpName: OpAllTags,
		Query:  AllTags_Operation,
	}

	data := &AllTagsResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}

	return data, nil
}

func queryPosts(
	ctx context.Context,
	client genqlientgraphql.Client,
	req *genqlientgraphql.Request,
) (*PostsResponse, error) {
	data := &PostsResponse{}
	resp := &genqlientgraphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}

	return data, nil
}
