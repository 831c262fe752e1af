package viewset

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// Example model and in-memory backend for a small cat collection.
type Cat struct {
	ID   int    `json:"id" field:"readonly"`
	Name string `json:"name" field:"required" validate:"min=1"`
	Mood string `json:"mood" field:"default='content'"`
}

// CatStore keeps cats in a slice. It implements every storage capability, so
// a ModelViewSet over it routes all five actions.
type CatStore struct {
	nextID int
	cats   []*Cat
}

func NewCatStore() *CatStore {
	return &CatStore{nextID: 1}
}

func (s *CatStore) ListModels(ctx context.Context) ([]any, error) {
	models := make([]any, len(s.cats))
	for i, cat := range s.cats {
		models[i] = cat
	}
	return models, nil
}

func (s *CatStore) GetModel(ctx context.Context, pk string) (any, error) {
	id, err := strconv.Atoi(pk)
	if err != nil {
		return nil, nil
	}
	for _, cat := range s.cats {
		if cat.ID == id {
			return cat, nil
		}
	}
	return nil, nil
}

func (s *CatStore) CreateModel(ctx context.Context, data map[string]any) (any, error) {
	cat := &Cat{ID: s.nextID}
	s.nextID++
	applyCatData(cat, data)
	s.cats = append(s.cats, cat)
	return cat, nil
}

func (s *CatStore) UpdateModel(ctx context.Context, instance any, data map[string]any) (any, error) {
	cat := instance.(*Cat)
	applyCatData(cat, data)
	return cat, nil
}

func (s *CatStore) DestroyModel(ctx context.Context, instance any) error {
	cat := instance.(*Cat)
	for i, existing := range s.cats {
		if existing == cat {
			s.cats = append(s.cats[:i], s.cats[i+1:]...)
			return nil
		}
	}
	return nil
}

func applyCatData(cat *Cat, data map[string]any) {
	if name, ok := data["name"].(string); ok {
		cat.Name = name
	}
	if mood, ok := data["mood"].(string); ok {
		cat.Mood = mood
	}
}

// ExampleUsage wires a full CRUD resource in a few lines: schema from the
// model's tags, viewset over an in-memory store, blueprint mounted on a gin
// group.
func ExampleUsage() {
	schema, err := SchemaFromStruct(Cat{})
	if err != nil {
		panic(err)
	}

	vs := NewModelViewSet(schema, NewCatStore())

	bp, err := NewBlueprint("cats", vs, BlueprintOpts{})
	if err != nil {
		panic(err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	bp.Register(engine.Group("/cats"))

	// Create a cat, then list the collection.
	create := httptest.NewRequest(http.MethodPost, "/cats", strings.NewReader(`{"name": "Kitty One"}`))
	create.Header.Set("Content-Type", ContentTypeApplicationJSON)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, create)
	fmt.Printf("POST /cats -> %d %s\n", rec.Code, rec.Body.String())

	list := httptest.NewRequest(http.MethodGet, "/cats", nil)
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, list)
	fmt.Printf("GET /cats -> %d %s\n", rec.Code, rec.Body.String())
}
