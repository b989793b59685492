// Package types defines the identifiers, items, locations, resolver
// configuration and standard errors shared by the jd catalog, its
// resolvers and the CLI.
package types
