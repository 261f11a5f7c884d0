// Package api is the wire layer of the OneSky Platform API client.
//
// It knows how to sign a call (Sign, DevHash), how to lay out the ordered
// parameter list every endpoint expects (Params), and how to turn that list
// into an *http.Request for each of the supported endpoints:
//
//	GET  /projects/{project_id}/files
//	POST /projects/{project_id}/files          (multipart upload)
//	GET  /projects/{project_id}/languages
//	GET  /projects/{project_id}/translations
//	GET  /locales
//
// Requests are executed through an HttpRequestDoer, which *http.Client
// satisfies. The raw Client returns the *http.Response untouched; mapping
// statuses to errors is left to package client.
//
// The endpoints are also described by an embedded OpenAPI 3 document (see
// GetSpec) so that built requests can be checked with a RequestValidator.
package api
