package viewset

import (
	"fmt"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
)

// kittensViewSet is a hand-written viewset over a static collection. It
// implements only List and Retrieve, so only those two routes exist - no
// serializer, no storage backend, just action bodies.
type kittensViewSet struct{}

var kittens = []map[string]any{
	{"id": "1", "name": "Kitty One"},
	{"id": "2", "name": "Kitty Two"},
}

func (kittensViewSet) List(ctx *Context) (*Response, error) {
	return OK(kittens), nil
}

func (kittensViewSet) Retrieve(ctx *Context) (*Response, error) {
	for _, kitten := range kittens {
		if kitten["id"] == ctx.PK {
			return OK(kitten), nil
		}
	}
	return nil, NewNotFound("Kitten not found :V")
}

// ExampleCustomViewSet shows the generic (non-model) side of the framework:
// any value with action methods becomes a blueprint.
func ExampleCustomViewSet() {
	bp, err := NewBlueprint("kittens", kittensViewSet{}, BlueprintOpts{})
	if err != nil {
		panic(err)
	}

	for _, route := range bp.Routes() {
		fmt.Printf("%-6s /kittens%s -> %s\n", route.Method, route.Path, route.Action)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	bp.Register(engine.Group("/kittens"))

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kittens/2", nil))
	fmt.Printf("GET /kittens/2 -> %d %s\n", rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kittens/3", nil))
	fmt.Printf("GET /kittens/3 -> %d %s\n", rec.Code, rec.Body.String())
}
