package hello

import (
	"net/http"

	"github.com/go-barry/hello-lambda/core"
)

const (
	IndexTitle   = "FastHTML"
	IndexMessage = "Hello from FastHTML on AWS Lambda!"
)

// Index is the handler for GET /. It ignores the request and has no side
// effects.
func Index(r *http.Request) (core.Page, error) {
	return core.Page{
		Title:      IndexTitle,
		Paragraphs: []string{IndexMessage},
	}, nil
}

func registerRoutes(router *core.Router) {
	router.GetTitled("/", IndexTitle, Index)
}
