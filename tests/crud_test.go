package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	viewset "github.com/SimonDaKappa/go-viewset"
)

// Article is the end-to-end test model.
type Article struct {
	ID    int    `json:"id" field:"readonly"`
	Title string `json:"title" field:"required" validate:"min=1,max=80"`
	Body  string `json:"body"`
}

// articleStore is a full in-memory backend.
type articleStore struct {
	nextID   int
	articles []*Article
}

func newArticleStore() *articleStore {
	return &articleStore{nextID: 1}
}

func (s *articleStore) ListModels(ctx context.Context) ([]any, error) {
	models := make([]any, len(s.articles))
	for i, article := range s.articles {
		models[i] = article
	}
	return models, nil
}

func (s *articleStore) GetModel(ctx context.Context, pk string) (any, error) {
	id, err := strconv.Atoi(pk)
	if err != nil {
		return nil, nil
	}
	for _, article := range s.articles {
		if article.ID == id {
			return article, nil
		}
	}
	return nil, nil
}

func (s *articleStore) CreateModel(ctx context.Context, data map[string]any) (any, error) {
	article := &Article{ID: s.nextID}
	s.nextID++
	applyData(article, data)
	s.articles = append(s.articles, article)
	return article, nil
}

func (s *articleStore) UpdateModel(ctx context.Context, instance any, data map[string]any) (any, error) {
	article := instance.(*Article)
	applyData(article, data)
	return article, nil
}

func (s *articleStore) DestroyModel(ctx context.Context, instance any) error {
	article := instance.(*Article)
	for i, existing := range s.articles {
		if existing == article {
			s.articles = append(s.articles[:i], s.articles[i+1:]...)
			return nil
		}
	}
	return nil
}

func applyData(article *Article, data map[string]any) {
	if title, ok := data["title"].(string); ok {
		article.Title = title
	}
	if body, ok := data["body"].(string); ok {
		article.Body = body
	}
}

func newServer(t *testing.T) (*gin.Engine, *articleStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	schema, err := viewset.SchemaFromStruct(Article{})
	require.NoError(t, err)

	store := newArticleStore()
	vs := viewset.NewModelViewSet(schema, store)

	bp, err := viewset.NewBlueprint("articles", vs, viewset.BlueprintOpts{})
	require.NoError(t, err)

	engine := gin.New()
	bp.Register(engine.Group("/articles"))
	return engine, store
}

func do(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCRUDLifecycle(t *testing.T) {
	engine, _ := newServer(t)

	// Empty collection lists as an empty array, not null.
	rec := do(engine, http.MethodGet, "/articles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))

	// Create assigns the id.
	rec = do(engine, http.MethodPost, "/articles", `{"title": "First", "body": "hello"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode(t, rec)
	assert.Equal(t, float64(1), created["id"])
	assert.Equal(t, "First", created["title"])

	// A read-only id in the payload is ignored.
	rec = do(engine, http.MethodPost, "/articles", `{"id": 99, "title": "Second"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(2), decode(t, rec)["id"])

	// List preserves storage order.
	rec = do(engine, http.MethodGet, "/articles", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 2)
	assert.Equal(t, "First", listed[0]["title"])
	assert.Equal(t, "Second", listed[1]["title"])

	// Retrieve one.
	rec = do(engine, http.MethodGet, "/articles/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "First", decode(t, rec)["title"])

	// Partial update via PATCH leaves other fields alone.
	rec = do(engine, http.MethodPatch, "/articles/1", `{"body": "updated"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode(t, rec)
	assert.Equal(t, "First", updated["title"])
	assert.Equal(t, "updated", updated["body"])

	// PUT dispatches to the same update action.
	rec = do(engine, http.MethodPut, "/articles/1", `{"title": "Renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", decode(t, rec)["title"])

	// Destroy empties the slot and repeated destroy is a 404.
	rec = do(engine, http.MethodDelete, "/articles/1", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = do(engine, http.MethodDelete, "/articles/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(engine, http.MethodGet, "/articles", "")
	var remaining []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &remaining))
	require.Len(t, remaining, 1)
	assert.Equal(t, "Second", remaining[0]["title"])
}

func TestErrorResponses(t *testing.T) {
	cases := []struct {
		name       string
		method     string
		target     string
		body       string
		wantStatus int
		check      func(t *testing.T, body map[string]any)
	}{
		{
			name:       "RetrieveMissing",
			method:     http.MethodGet,
			target:     "/articles/999",
			wantStatus: http.StatusNotFound,
			check: func(t *testing.T, body map[string]any) {
				assert.NotEmpty(t, body["detail"])
			},
		},
		{
			name:       "UpdateMissing",
			method:     http.MethodPut,
			target:     "/articles/999",
			body:       `{"title": "x"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "DestroyMissing",
			method:     http.MethodDelete,
			target:     "/articles/999",
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "CreateMissingRequiredField",
			method:     http.MethodPost,
			target:     "/articles",
			body:       `{"body": "no title"}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				errs := body["errors"].(map[string]any)
				assert.Contains(t, errs, "title")
			},
		},
		{
			name:       "CreateMalformedBody",
			method:     http.MethodPost,
			target:     "/articles",
			body:       `{"title": `,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "CreateFailsRule",
			method:     http.MethodPost,
			target:     "/articles",
			body:       `{"title": ""}`,
			wantStatus: http.StatusBadRequest,
			check: func(t *testing.T, body map[string]any) {
				errs := body["errors"].(map[string]any)
				assert.Contains(t, errs, "title")
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine, store := newServer(t)

			rec := do(engine, tc.method, tc.target, tc.body)
			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.check != nil {
				tc.check(t, decode(t, rec))
			}

			// Error paths must leave storage untouched.
			models, err := store.ListModels(context.Background())
			require.NoError(t, err)
			assert.Empty(t, models)
		})
	}
}

func TestReadOnlyViewSetOverHTTP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	schema, err := viewset.SchemaFromStruct(Article{})
	require.NoError(t, err)

	store := newArticleStore()
	_, err = store.CreateModel(context.Background(), map[string]any{"title": "First"})
	require.NoError(t, err)

	vs := viewset.NewReadOnlyModelViewSet(schema, store)
	bp, err := viewset.NewBlueprint("articles", vs, viewset.BlueprintOpts{})
	require.NoError(t, err)

	engine := gin.New()
	bp.Register(engine.Group("/articles"))

	rec := do(engine, http.MethodGet, "/articles", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(engine, http.MethodGet, "/articles/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Writes are not routed at all.
	rec = do(engine, http.MethodPost, "/articles", `{"title": "Nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(engine, http.MethodDelete, "/articles/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
