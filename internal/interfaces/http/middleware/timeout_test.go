package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/your-org/insight-pyme/internal/config"
)

func newTimeoutRouter(timeout time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{RequestTimeout: timeout},
	}

	r := gin.New()
	r.Use(Timeout(cfg))
	r.GET("/fast", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/slow", func(c *gin.Context) {
		select {
		case <-c.Request.Context().Done():
			return
		case <-time.After(time.Second):
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		}
	})
	return r
}

func TestTimeoutUsesConfiguredDeadline(t *testing.T) {
	r := newTimeoutRouter(20 * time.Millisecond)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	assert.Equal(t, http.StatusRequestTimeout, w.Code)
	assert.Contains(t, w.Body.String(), "Request timeout")
}

func TestTimeoutPassesFastRequests(t *testing.T) {
	r := newTimeoutRouter(time.Second)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fast", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
