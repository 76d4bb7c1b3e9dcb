package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var errThing = errors.New("thing not found")

func TestHandleErrorWithDefault(t *testing.T) {
	mappings := []ErrorMapping{{Err: errThing, Status: http.StatusNotFound, Code: "THING_NOT_FOUND"}}

	t.Run("mapped error", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleErrorWithDefault(c, errors.Join(errThing, errors.New("extra")), mappings)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.JSONEq(t, `{"error": "thing not found", "code": "THING_NOT_FOUND"}`, w.Body.String())
	})

	t.Run("unmapped error hides details", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		HandleErrorWithDefault(c, errors.New("dial tcp: connection refused"), mappings)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error": "internal error"}`, w.Body.String())
		assert.Len(t, c.Errors, 1)
	})
}

func TestUintParam(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
		want  uint
	}{
		{"42", true, 42},
		{"0", false, 0},
		{"-1", false, 0},
		{"abc", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Params = gin.Params{{Key: "id", Value: tt.value}}

			id, ok := UintParam(c, "id")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
			if !ok {
				assert.Equal(t, http.StatusBadRequest, w.Code)
			}
		})
	}
}
