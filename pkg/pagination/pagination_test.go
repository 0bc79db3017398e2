package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paramsFor(query string) Params {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/users"+query, nil)
	return Extract(c)
}

func TestExtract(t *testing.T) {
	p := paramsFor("")
	assert.Equal(t, Params{Page: 1, Limit: 20, Skip: 0}, p)

	p = paramsFor("?page=3&limit=10")
	assert.Equal(t, Params{Page: 3, Limit: 10, Skip: 20}, p)

	// Out-of-range values clamp to defaults.
	p = paramsFor("?page=-1&limit=0")
	assert.Equal(t, Params{Page: 1, Limit: 20, Skip: 0}, p)

	p = paramsFor("?page=abc&limit=9999")
	assert.Equal(t, Params{Page: 1, Limit: MaxLimit, Skip: 0}, p)
}

func TestMetadataFrom(t *testing.T) {
	meta := MetadataFrom(45, Params{Page: 2, Limit: 20})
	assert.Equal(t, Metadata{
		TotalItems:  45,
		CurrentPage: 2,
		PageSize:    20,
		TotalPages:  3,
		HasNextPage: true,
		HasPrevPage: true,
	}, meta)

	meta = MetadataFrom(0, Params{Page: 1, Limit: 20})
	assert.Zero(t, meta.TotalPages)
	assert.False(t, meta.HasNextPage)
	assert.False(t, meta.HasPrevPage)
}
