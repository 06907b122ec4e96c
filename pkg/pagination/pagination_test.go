package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func ctxWithQuery(query string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+query, nil)
	return c
}

func TestParseDefaults(t *testing.T) {
	p := Parse(ctxWithQuery(""))
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestParseExplicitValues(t *testing.T) {
	p := Parse(ctxWithQuery("page=3&limit=10"))
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 20, p.Offset)
}

func TestParseClampsLimit(t *testing.T) {
	p := Parse(ctxWithQuery("limit=5000"))
	assert.Equal(t, MaxLimit, p.Limit)
}

func TestParseRejectsGarbage(t *testing.T) {
	p := Parse(ctxWithQuery("page=-2&limit=abc"))
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultLimit, p.Limit)
}
