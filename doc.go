// Package oasresolve loads OpenAPI and Swagger documents and dereferences the
// JSON references they contain.
//
// The work is split across a handful of packages:
//
//   - pathaccess: get and set values inside nested map/slice documents
//   - format: parse YAML or JSON text into a generic document and back
//   - refurl: normalize reference strings into absolute locators and fetch them
//   - resolver: scan, fetch, and substitute every $ref, with recursion limits,
//     selective resolution scopes, and an optional translation mode
//   - validator: pluggable structural checks run after resolution
//   - oaserrors: the structured error types returned by all of the above
//
// # Quick Start
//
// Resolve every reference in a file:
//
//	res, err := resolver.ParseFile("openapi.yaml", resolver.WithScope(resolver.ResolveAll))
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Document["info"])
//
// Resolve an already-loaded document relative to a base location:
//
//	r, err := resolver.New(doc, resolver.WithBaseURL("file:///specs/api.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := r.Resolve(); err != nil {
//		log.Fatal(err)
//	}
//	resolved := r.Document()
//
// Flatten a multi-file specification into one document whose references are
// all local:
//
//	res, err := resolver.ParseFile("openapi.yaml", resolver.WithTranslateExternal(true))
package oasresolve
