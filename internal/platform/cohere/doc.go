// Package cohere implements generation.Gateway against the Cohere v2 chat
// endpoint over plain REST.
package cohere
