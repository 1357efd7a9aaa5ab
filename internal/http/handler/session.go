package handler

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const (
	flashKey      = "flash_messages"
	successURLKey = "special_success_url"
)

// FlashMessage is a one-time notice shown on the next page the user opens.
type FlashMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// Flash levels.
const (
	FlashInfo    = "info"
	FlashSuccess = "success"
	FlashWarning = "warning"
)

// addFlash queues a message in the caller's session.
func addFlash(c *fiber.Ctx, store *session.Store, level, text string) error {
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	msgs := decodeFlashes(sess.Get(flashKey))
	msgs = append(msgs, FlashMessage{Level: level, Text: text})
	b, err := json.Marshal(msgs)
	if err != nil {
		return err
	}
	sess.Set(flashKey, string(b))
	return sess.Save()
}

// popFlashes returns and clears the queued messages. Always non-nil.
func popFlashes(c *fiber.Ctx, store *session.Store) []FlashMessage {
	sess, err := store.Get(c)
	if err != nil {
		return []FlashMessage{}
	}
	raw := sess.Get(flashKey)
	if raw == nil {
		return []FlashMessage{}
	}
	sess.Delete(flashKey)
	_ = sess.Save()
	return decodeFlashes(raw)
}

func decodeFlashes(raw any) []FlashMessage {
	out := []FlashMessage{}
	s, ok := raw.(string)
	if !ok || s == "" {
		return out
	}
	_ = json.Unmarshal([]byte(s), &out)
	return out
}

// rememberMealCreateReferrer stores the referring path and query when the request came from the meal
// create screen on this host. Anything else is ignored and leaves the session untouched.
func rememberMealCreateReferrer(c *fiber.Ctx, store *session.Store) error {
	ref := c.Get(fiber.HeaderReferer)
	if ref == "" {
		return nil
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" || !strings.EqualFold(u.Host, c.Hostname()) {
		return nil
	}
	target := c.App().GetRoute(RouteMealCreate).Path
	if target == "" || !samePath(u.Path, target) {
		return nil
	}

	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(successURLKey, u.RequestURI())
	return sess.Save()
}

// popSuccessURL returns the remembered referrer once, or "" when none is stored.
func popSuccessURL(c *fiber.Ctx, store *session.Store) (string, error) {
	sess, err := store.Get(c)
	if err != nil {
		return "", err
	}
	dest, _ := sess.Get(successURLKey).(string)
	if dest == "" {
		return "", nil
	}
	sess.Delete(successURLKey)
	return dest, sess.Save()
}

func samePath(a, b string) bool {
	trim := func(p string) string {
		if len(p) > 1 {
			return strings.TrimSuffix(p, "/")
		}
		return p
	}
	return trim(a) == trim(b)
}
