package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// SanitizeAndCleanInputMiddleware strips HTML from every string field of
// incoming JSON bodies on the unauthenticated routes.
func SanitizeAndCleanInputMiddleware() gin.HandlerFunc {
	policy := bluemonday.StrictPolicy()
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodPost &&
			c.Request.Method != http.MethodPut &&
			c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}
		// File uploads (multipart) pass through untouched.
		if !strings.HasPrefix(c.ContentType(), "application/json") {
			c.Next()
			return
		}

		buf, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid body"})
			return
		}
		if len(bytes.TrimSpace(buf)) == 0 {
			c.Request.Body = io.NopCloser(bytes.NewBuffer(buf))
			c.Next()
			return
		}

		var body interface{}
		if err := json.Unmarshal(buf, &body); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Malformed JSON"})
			return
		}

		cleaned := sanitizeValue(policy, body)

		newBody, _ := json.Marshal(cleaned)
		c.Request.Body = io.NopCloser(bytes.NewBuffer(newBody))
		c.Request.ContentLength = int64(len(newBody))

		c.Next()
	}
}

// sanitizeValue walks arbitrarily nested JSON and cleans every string leaf.
func sanitizeValue(policy *bluemonday.Policy, v interface{}) interface{} {
	switch val := v.(type) {
	case string:
		return policy.Sanitize(val)
	case map[string]interface{}:
		for k, item := range val {
			val[k] = sanitizeValue(policy, item)
		}
		return val
	case []interface{}:
		for i, item := range val {
			val[i] = sanitizeValue(policy, item)
		}
		return val
	default:
		return v
	}
}
