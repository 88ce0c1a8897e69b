package logmodule

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestGinrus(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Ginrus("API"))
	router.GET("/ok", func(c *gin.Context) {
		c.Set("requester", "u1")
		c.Status(http.StatusOK)
	})
	router.GET("/fail", func(c *gin.Context) {
		c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/ok?zipCode=1", nil))

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, log.InfoLevel, entry.Level)
		assert.Equal(t, "API", entry.Data["prefix"])
		assert.Equal(t, "/ok?zipCode=1", entry.Data["path"])
		assert.Equal(t, "u1", entry.Data["requester"])
		assert.Equal(t, http.StatusOK, entry.Data["status"])
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/fail", nil))

	entry = hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, log.ErrorLevel, entry.Level)
		assert.Contains(t, entry.Message, "boom")
	}
}

func TestGinrusClientErrorsLogAtWarn(t *testing.T) {
	hook := test.NewGlobal()
	defer hook.Reset()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Ginrus("API"))
	router.PUT("/forbidden", func(c *gin.Context) {
		c.Error(errors.New("not allowed to edit help request"))
		c.AbortWithStatus(http.StatusForbidden)
	})
	router.GET("/missing", func(c *gin.Context) {
		c.Status(http.StatusNotFound)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("PUT", "/forbidden", nil))

	entry := hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, log.WarnLevel, entry.Level)
		assert.Contains(t, entry.Message, "not allowed to edit")
		assert.Equal(t, http.StatusForbidden, entry.Data["status"])
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))

	entry = hook.LastEntry()
	if assert.NotNil(t, entry) {
		assert.Equal(t, log.WarnLevel, entry.Level)
	}
}
