package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
)

func (h *Handler) PingHandler(rw http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warnw("Storage ping failed", "error", err)
			h.writeJSON(rw, http.StatusInternalServerError, models.WriteResult{Status: "error", Error: "storage unavailable"})
			return
		}
	}
	h.writeJSON(rw, http.StatusOK, models.WriteResult{Status: "ok"})
}

func (h *Handler) GetHistoryHandler(rw http.ResponseWriter, r *http.Request) {
	key, ok := h.keyParam(rw, r)
	if !ok {
		return
	}

	var history []string
	h.Read(func(e *engine.Engine) {
		history = e.GetHistory(key)
	})
	h.writeJSON(rw, http.StatusOK, history)
}

func (h *Handler) GetHighlightsHandler(rw http.ResponseWriter, r *http.Request) {
	var highlights []string
	h.Read(func(e *engine.Engine) {
		highlights = e.GetHighlights()
	})
	h.writeJSON(rw, http.StatusOK, highlights)
}

func (h *Handler) SnapshotHandler(rw http.ResponseWriter, r *http.Request) {
	err := h.Write(func(e *engine.Engine) error {
		e.SnapshotState()
		return nil
	})
	h.writeResult(rw, nil, err)
}

func (h *Handler) ExportHandler(rw http.ResponseWriter, r *http.Request) {
	h.writeJSON(rw, http.StatusOK, h.Export())
}

// RestoreHandler заменяет состояние движка документом экспорта.
// Некорректный документ отклоняется целиком, состояние не меняется.
func (h *Handler) RestoreHandler(rw http.ResponseWriter, r *http.Request) {
	state := models.NewStateExport()
	if err := json.NewDecoder(r.Body).Decode(state); err != nil {
		h.badRequest(rw, "invalid JSON: "+err.Error())
		return
	}

	err := h.Write(func(e *engine.Engine) error {
		return e.Restore(state)
	})
	h.writeResult(rw, nil, err)
}

// GetListHandler выводит метрики, флаги и подсветки текстом или HTML (Accept: text/html).
func (h *Handler) GetListHandler(rw http.ResponseWriter, r *http.Request) {
	var state *models.StateExport
	h.Read(func(e *engine.Engine) {
		state = e.Export()
	})

	asHTML := strings.Contains(r.Header.Get("Accept"), "text/html")

	var sb strings.Builder
	if asHTML {
		sb.WriteString("<html><body><h1>State</h1>")

		if state.Metrics.Len() > 0 {
			sb.WriteString("<h2>Metrics</h2><ul>")
			state.Metrics.Range(func(name string, val int64) bool {
				sb.WriteString(fmt.Sprintf("<li>%s: %d</li>", html.EscapeString(name), val))
				return true
			})
			sb.WriteString("</ul>")
		}

		if state.Flags.Len() > 0 {
			sb.WriteString("<h2>Flags</h2><ul>")
			state.Flags.Range(func(name string, val bool) bool {
				sb.WriteString(fmt.Sprintf("<li>%s: %t</li>", html.EscapeString(name), val))
				return true
			})
			sb.WriteString("</ul>")
		}

		if len(state.Highlights) > 0 {
			sb.WriteString("<h2>Highlights</h2><ul>")
			for _, hl := range state.Highlights {
				sb.WriteString("<li>" + html.EscapeString(hl) + "</li>")
			}
			sb.WriteString("</ul>")
		}

		sb.WriteString("</body></html>")
		rw.Header().Set("Content-Type", "text/html")
	} else {
		state.Metrics.Range(func(name string, val int64) bool {
			sb.WriteString(fmt.Sprintf("%s: %d\n", name, val))
			return true
		})
		state.Flags.Range(func(name string, val bool) bool {
			sb.WriteString(fmt.Sprintf("%s: %t\n", name, val))
			return true
		})
		for _, hl := range state.Highlights {
			sb.WriteString(hl + "\n")
		}
		rw.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}

	rw.WriteHeader(http.StatusOK)
	if _, err := rw.Write([]byte(sb.String())); err != nil {
		h.logger.Errorw("Write error", "error", err)
	}
}
