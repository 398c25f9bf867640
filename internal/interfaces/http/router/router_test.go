package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Empty(t, r.apiVersion)
	assert.Empty(t, r.registrars)
	assert.Equal(t, "/api", r.BasePath())
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))

	assert.Equal(t, "v2", r.apiVersion)
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("Customer", "/Customer").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		GET("/:key", func(c *gin.Context) { c.String(http.StatusOK, "get "+c.Param("key")) })

	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/Customer")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "list", w.Body.String())

	w = serve(engine, http.MethodGet, "/api/Customer/C001")
	assert.Equal(t, "get C001", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/api/v1/Customer").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("name and prefix", func(t *testing.T) {
		g := NewDomainGroup("Product", "/Product")
		assert.Equal(t, "Product", g.Name())
		assert.Equal(t, "/Product", g.Prefix())
	})

	t.Run("registers every method", func(t *testing.T) {
		engine := gin.New()
		echo := func(c *gin.Context) { c.String(http.StatusOK, c.Request.Method) }
		g := NewDomainGroup("Product", "/Product").
			GET("/:key", echo).
			POST("", echo).
			PUT("/:key", echo).
			PATCH("/:key", echo).
			DELETE("/:key", echo)
		g.RegisterRoutes(engine.Group("/api"))

		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
			w := serve(engine, method, "/api/Product/P1")
			assert.Equal(t, http.StatusOK, w.Code, method)
			assert.Equal(t, method, w.Body.String())
		}
		assert.Equal(t, http.MethodPost, serve(engine, http.MethodPost, "/api/Product").Body.String())
	})

	t.Run("applies group middleware", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("Session", "/Session").
			Use(func(c *gin.Context) {
				c.Header("X-Group", "session")
				c.Next()
			}).
			GET("", func(c *gin.Context) { c.Status(http.StatusOK) })
		g.RegisterRoutes(engine.Group("/api"))

		w := serve(engine, http.MethodGet, "/api/Session")
		assert.Equal(t, "session", w.Header().Get("X-Group"))
	})
}
