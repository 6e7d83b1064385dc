package transport

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"product-catalog/internal/domain"
	"product-catalog/internal/repository"
	"product-catalog/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

// stubCategoryService is a canned-response CategoryService for handler tests
type stubCategoryService struct {
	category   *domain.Category
	categories []*domain.Category
	err        error
	lastName   string
}

func (s *stubCategoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	s.lastName = name
	return s.category, s.err
}

func (s *stubCategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.categories, s.err
}

func (s *stubCategoryService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return s.category, s.err
}

func (s *stubCategoryService) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	s.lastName = name
	return s.category, s.err
}

func (s *stubCategoryService) Update(ctx context.Context, id uuid.UUID, input service.UpdateCategoryInput) (*domain.Category, error) {
	return s.category, s.err
}

func (s *stubCategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.err
}

func newCategoryRouter(svc service.CategoryService) chi.Router {
	router := chi.NewRouter()
	NewCategoryHandler(svc, zap.NewNop()).RegisterRoutes(router)
	return router
}

func TestCreateCategoryReturns201(t *testing.T) {
	stub := &stubCategoryService{category: &domain.Category{ID: uuid.New(), Name: "Phones"}}
	router := newCategoryRouter(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString(`{"name":"Phones"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Phones", stub.lastName)
}

func TestCreateCategoryMissingName(t *testing.T) {
	router := newCategoryRouter(&stubCategoryService{})

	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString(`{"description":"no name"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCategoryDuplicateName(t *testing.T) {
	router := newCategoryRouter(&stubCategoryService{err: repository.ErrCategoryAlreadyExists})

	req := httptest.NewRequest(http.MethodPost, "/api/categories", bytes.NewBufferString(`{"name":"Phones"}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestGetCategoryByNameNotFound(t *testing.T) {
	stub := &stubCategoryService{err: repository.ErrCategoryNotFound}
	router := newCategoryRouter(stub)

	req := httptest.NewRequest(http.MethodGet, "/api/categories/name/Ghosts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Ghosts", stub.lastName)
}

func TestGetCategoryByIDMalformedID(t *testing.T) {
	router := newCategoryRouter(&stubCategoryService{})

	req := httptest.NewRequest(http.MethodGet, "/api/categories/not-a-uuid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteCategoryInUse(t *testing.T) {
	router := newCategoryRouter(&stubCategoryService{err: repository.ErrCategoryInUse})

	req := httptest.NewRequest(http.MethodDelete, "/api/categories/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteCategoryReturns204(t *testing.T) {
	router := newCategoryRouter(&stubCategoryService{})

	req := httptest.NewRequest(http.MethodDelete, "/api/categories/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}
