package http

import (
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"
	"github.com/swaggo/swag"
)

// docsInstance is the swag registry name the API document is served under.
const docsInstance = "dispatch"

var registerDocs sync.Once

type openAPIDoc string

func (d openAPIDoc) ReadDoc() string {
	return string(d)
}

// DocsHandler serves the swagger UI at /swagger/index.html and the API
// document at /swagger/doc.json. The document is registered with swag once
// per process.
func DocsHandler(swagger *openapi3.T) (echo.HandlerFunc, error) {
	doc, err := swagger.MarshalJSON()
	if err != nil {
		return nil, err
	}
	registerDocs.Do(func() {
		swag.Register(docsInstance, openAPIDoc(doc))
	})
	return echoSwagger.EchoWrapHandler(echoSwagger.InstanceName(docsInstance)), nil
}
