/* server_test.go
 * Contains unit tests for models.go and the route table
 */

package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// region Config tests

func TestConfig_DefaultValues(t *testing.T) {
	cfg := Config{
		Addr: ":5000",
		API:  nil,
	}

	assert.Equal(t, ":5000", cfg.Addr)
	assert.Nil(t, cfg.API)
}

// endregion

// region Server tests

func TestServer_NewServer(t *testing.T) {
	s := NewServer(Config{})

	assert.NotNil(t, s)
	assert.Nil(t, s.api)
	assert.NotNil(t, s.log)
}

func TestServer_Routes(t *testing.T) {
	s := NewServer(Config{API: &fakeHandler{reply: "hola"}})
	server := httptest.NewServer(s.Routes())
	defer server.Close()

	res, err := http.Get(server.URL + "/")
	assert.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusOK, res.StatusCode)

	res, err = http.Get(server.URL + "/webhook")
	assert.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, res.StatusCode)

	res, err = http.Get(server.URL + "/nope")
	assert.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
}

// endregion

// Note: Start() blocks on ListenAndServe and is excluded from test builds
