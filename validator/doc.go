// Package validator provides validation backends for resolved OpenAPI and
// Swagger documents.
//
// Every backend implements [Backend], a single Validate method taking the
// generic document produced by the resolver. The set of backends is closed:
//
//   - KindFlex: lenient structural checks for any version (default)
//   - KindSwagger: Swagger 2.0 rules
//   - KindOpenAPI: OpenAPI 3.x rules
//
// A backend plugs into the resolver as its validator:
//
//	backend, err := validator.New(validator.KindOpenAPI)
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := resolver.ParseFile("openapi.yaml", resolver.WithValidator(backend))
//	var verr *validator.Error
//	if errors.As(err, &verr) {
//		for _, issue := range verr.Result.Errors {
//			fmt.Println(issue)
//		}
//	}
//
// The concrete backends also offer Check, which returns the full [Result]
// including warnings. Local references must point at existing values;
// references left unresolved outside the document are reported as warnings.
package validator
