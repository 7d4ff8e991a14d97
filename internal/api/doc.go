// Package api handles incoming HTTP requests through a single front
// dispatcher. The dispatcher resolves the logical route against the route
// table, authenticates protected verbs and hands the request to the resource
// handler, which performs the verb and writes one response envelope.
package api
