package handlers

import (
	"encoding/base64"
	"encoding/json"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

// Notification kinds
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is a one-shot notification carried across a redirect
type Flash struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func setFlash(c *gin.Context, kind, message string, secure bool) {
	raw, err := json.Marshal(Flash{Type: kind, Message: message})
	if err != nil {
		return
	}
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(raw), 60, "/", "", secure, true)
}

// takeFlash reads and clears the pending notification
func takeFlash(c *gin.Context, secure bool) *Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", secure, true)

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil
	}
	var flash Flash
	if err := json.Unmarshal(raw, &flash); err != nil || flash.Message == "" {
		return nil
	}
	return &flash
}
