package http

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// SanitizeInput trims leading and trailing whitespace from every string leaf
// of the JSON body and the query string before any validation reads them.
// Numbers pass through as raw tokens (json.Number), so monetary literals are
// never rewritten through float64. The pass is idempotent and has no
// rejection path.
func SanitizeInput() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sanitizeBody(c)
		sanitizeQuery(c)
		return c.Next()
	}
}

func sanitizeBody(c *fiber.Ctx) {
	body := c.Body()
	if len(body) == 0 || !strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		// Malformed JSON is left for the handler's body parser to reject.
		return
	}

	sanitized, err := json.Marshal(sanitizeValue(payload))
	if err != nil {
		return
	}
	c.Request().SetBodyRaw(sanitized)
}

func sanitizeQuery(c *fiber.Ctx) {
	args := c.Context().QueryArgs()
	if args.Len() == 0 {
		return
	}

	type pair struct{ key, value string }
	var pairs []pair
	changed := false
	args.VisitAll(func(key, value []byte) {
		trimmed := strings.TrimSpace(string(value))
		if trimmed != string(value) {
			changed = true
		}
		pairs = append(pairs, pair{key: string(key), value: trimmed})
	})
	if !changed {
		return
	}

	args.Reset()
	for _, p := range pairs {
		args.Add(p.key, p.value)
	}
}

func sanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case []any:
		for i := range val {
			val[i] = sanitizeValue(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = sanitizeValue(val[k])
		}
		return val
	default:
		return val
	}
}
