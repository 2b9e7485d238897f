package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestRegisteredSpec_IsValidJSON(t *testing.T) {
	doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var openapi struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(doc), &openapi))
	assert.Equal(t, "Distribuidora API", openapi.Info.Title)
	assert.Contains(t, openapi.Paths, "/api/orders/{id}/confirm")
	assert.Contains(t, openapi.Paths["/api/routes"], "post")
	assert.Contains(t, openapi.Paths["/api/inventory/low-stock"], "get")
	assert.Contains(t, openapi.Paths["/api/customers/overdue-credit"], "get")
	assert.NotContains(t, openapi.Paths, "/api/orders/{id}/deliver")
}
