package app

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/things/:id", func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/12", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRespondStorageError_SentinelMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := testApp()

	cases := []struct {
		err  error
		code int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("slug taken: %w", ErrConflict), http.StatusConflict},
		{fmt.Errorf("connection refused"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		a.respondStorageError(c, tc.err, "thing")
		assert.Equal(t, tc.code, w.Code, "error %v", tc.err)
	}
}

func TestRespondSlotsError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	a := testApp()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	a.respondSlotsError(c, fmt.Errorf("%w: invalid timezone", ErrInvalidInput))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	a.respondSlotsError(c, fmt.Errorf("connection refused"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
