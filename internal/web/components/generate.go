// Package components holds the templ views of the blog. The *_templ.go files
// are generated from the .templ sources next to them.
package components

//go:generate go tool templ generate
