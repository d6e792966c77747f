package swagger

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	fiberswagger "github.com/gofiber/swagger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocRegistered(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var parsed struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &parsed))
	assert.Equal(t, "GeoRecon API", parsed.Info.Title)

	routes := map[string]string{
		"/reconcile":          "post",
		"/reconcile/batch":    "post",
		"/places/lookup":      "get",
		"/places/{id}":        "get",
		"/places/reload":      "post",
		"/integrity":          "get",
		"/integrity/snapshot": "get",
		"/integrity/feed":     "get",
	}
	for path, method := range routes {
		require.Contains(t, parsed.Paths, path)
		assert.Contains(t, parsed.Paths[path], method, path)
	}
}

func TestDocServed(t *testing.T) {
	app := fiber.New()
	app.Get("/swagger/*", fiberswagger.HandlerDefault)

	resp, err := app.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/reconcile/batch")
}
