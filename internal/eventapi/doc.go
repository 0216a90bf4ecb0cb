// Package eventapi is the reference server for the /eventapi REST contract
// the console talks to. Its subpackages follow the usual layering: catalog
// (application), store, caching, messaging and http.
package eventapi
