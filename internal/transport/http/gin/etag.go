package httpgin

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeSVG  = "image/svg+xml"

	// Workspaces are per user and change with every interaction.
	cachePrivate = "private, no-cache"
)

// writeJSONWithCache writes v with an ETag. A matching If-None-Match gets 304.
func writeJSONWithCache(c *gin.Context, status int, v any, cacheControl string, weak bool) {
	b, err := json.Marshal(v)
	if err != nil {
		_ = c.Error(err)
		c.Status(http.StatusInternalServerError)
		return
	}
	writeWithCache(c, status, contentTypeJSON, b, cacheControl, weak)
}

func writeWithCache(c *gin.Context, status int, contentType string, body []byte, cacheControl string, weak bool) {
	sum := sha256.Sum256(body)
	tag := `"` + hex.EncodeToString(sum[:]) + `"`
	if weak {
		tag = "W/" + tag
	}
	inm := c.GetHeader("If-None-Match")
	c.Header("ETag", tag)
	if cacheControl != "" {
		c.Header("Cache-Control", cacheControl)
	}
	if inm == tag {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(status, contentType, body)
}
