// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/scottkoons/the-social-studio-sub000/internal/domain/window"
)

// WindowsHandler serves the posting window tables.
type WindowsHandler struct{}

// NewWindowsHandler creates a new windows handler.
func NewWindowsHandler() *WindowsHandler {
	return &WindowsHandler{}
}

type windowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type weekdayWindowsDTO struct {
	Weekday  string      `json:"weekday"`
	Priority int         `json:"priority"`
	Windows  []windowDTO `json:"windows"`
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// HandleGetWindows handles GET /windows requests. The response maps
// each platform to its seven weekday window sets.
func (h *WindowsHandler) HandleGetWindows(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	out := make(map[string][]weekdayWindowsDTO)
	for _, platform := range window.Platforms() {
		days := make([]weekdayWindowsDTO, 7)
		for wd := 0; wd < 7; wd++ {
			windows := window.For(wd, platform)
			dtos := make([]windowDTO, len(windows))
			for i, win := range windows {
				dtos[i] = windowDTO{
					Start: clock(win.StartMinutes),
					End:   clock(win.EndMinutes),
				}
			}
			days[wd] = weekdayWindowsDTO{
				Weekday:  time.Weekday(wd).String(),
				Priority: window.Priority(wd),
				Windows:  dtos,
			}
		}
		out[string(platform)] = days
	}
	writeJSON(w, http.StatusOK, out)
}
