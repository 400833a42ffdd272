// Package refurl turns $ref strings into absolute resource locators and loads
// the documents they point at.
//
// A [Locator] is an absolute URL: either a file URL naming a canonical
// filesystem path or a network URL. Two locators name the same resource when
// their scheme, host and path match; fragment and query are ignored for
// resource identity.
//
//	base, _ := refurl.FileLocator("specs/main.yaml")
//	loc, tokens, err := refurl.SplitReference(base, "common.yaml#/components/schemas/Pet")
//	// loc.Resource() == "file:///abs/specs/common.yaml"
//	// tokens == []string{"components", "schemas", "Pet"}
//
// Documents are loaded through a [Fetcher]. [NewFetcher] returns the default
// implementation, which reads files with encoding detection and issues HTTP
// GET requests for http and https locators, parsing either with the format
// package and caching parsed results per resource.
package refurl
