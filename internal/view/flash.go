package view

import (
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const flashSessionName = "flash-session"

// FlashLevel selects how a flash message is styled.
type FlashLevel string

const (
	FlashNotice FlashLevel = "notice"
	FlashError  FlashLevel = "error"
)

// FlashMessage is one banner shown on the next full page render.
type FlashMessage struct {
	Level FlashLevel `json:"level"`
	Text  string     `json:"text"`
}

// FlashData is the pending messages in the order they were added.
type FlashData []FlashMessage

// Empty reports whether there is nothing to show.
func (f FlashData) Empty() bool { return len(f) == 0 }

// AddFlash queues a message for the next page render of this browser.
func AddFlash(c echo.Context, level FlashLevel, text string) {
	sess, err := session.Get(flashSessionName, c)
	if sess == nil {
		c.Logger().Warnf("flash session unavailable: %v", err)
		return
	}
	sess.AddFlash(string(level) + ":" + text)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		c.Logger().Warnf("flash not saved: %v", err)
	}
}

// SetFlashNotice queues an informational message.
func SetFlashNotice(c echo.Context, text string) { AddFlash(c, FlashNotice, text) }

// SetFlashError queues an error message.
func SetFlashError(c echo.Context, text string) { AddFlash(c, FlashError, text) }

// GetFlashData drains the queued messages.
func GetFlashData(c echo.Context) FlashData {
	sess, _ := session.Get(flashSessionName, c)
	if sess == nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	_ = sess.Save(c.Request(), c.Response())

	out := make(FlashData, 0, len(raw))
	for _, v := range raw {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out = append(out, parseFlash(s))
	}
	return out
}

func parseFlash(s string) FlashMessage {
	for _, level := range []FlashLevel{FlashNotice, FlashError} {
		prefix := string(level) + ":"
		if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
			return FlashMessage{Level: level, Text: s[len(prefix):]}
		}
	}
	return FlashMessage{Level: FlashNotice, Text: s}
}
