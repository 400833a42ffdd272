// Package resolver dereferences JSON references ($ref) in OpenAPI and Swagger
// documents.
//
// A reference is a mapping with a string "$ref" entry. Resolving replaces such
// a mapping with a copy of the value it points to, after resolving the
// references inside that value in turn. Targets may live in the document
// itself, in local files, or behind http and https URLs.
//
// # Quick Start
//
// Load and resolve a file:
//
//	res, err := resolver.ParseFile("openapi.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(res.Version, res.Stats.Inlined)
//
// Or resolve a document that is already decoded:
//
//	r, err := resolver.New(doc, resolver.WithBaseURL("specs/openapi.yaml"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := r.Resolve(); err != nil {
//		log.Fatal(err)
//	}
//	resolved := r.Document()
//
// # Scopes
//
// Every reference falls into one class: internal (the target is in the root
// document, even when the reference sits in another file), files, or http.
// WithScope selects the classes that are resolved. References outside the
// scope are left in place; those inside copied external content are rewritten
// so they stay valid from the root document.
//
// # Recursion
//
// A target that is already being resolved may be entered again up to the
// recursion limit (1 by default). Reaching the limit calls the
// RecursionLimitHandler, whose return value replaces the reference. The
// default handler fails the resolution; NullRecursionLimitHandler substitutes
// null.
//
// # Translate Mode
//
// WithTranslateExternal(true) copies every external target once into the
// root document's schema container (components/schemas, or definitions for
// Swagger 2.0) and points references at the copies. Names are the file's
// basename joined with the target's local name, for example
// "schemas.yaml_Pet". Cycles between external files become local cycles.
//
// # Caching
//
// A Cache shared by several resolvers holds fetched documents, resolved
// documents, and resolvers still in progress. A resolver reaching a resource
// that another one is working on uses that resolver's current document
// instead of starting over.
package resolver
