package handler

import (
	"encoding/json"
	"net/http"

	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
)

func (h *Handler) GetAllThresholdsHandler(rw http.ResponseWriter, r *http.Request) {
	var thresholds *models.OrderedMap[int64]
	h.Read(func(e *engine.Engine) {
		thresholds = e.GetAllThresholds()
	})
	h.writeJSON(rw, http.StatusOK, thresholds)
}

func (h *Handler) GetAllLevelsHandler(rw http.ResponseWriter, r *http.Request) {
	var levels *models.OrderedMap[string]
	h.Read(func(e *engine.Engine) {
		levels = e.GetAllLevels()
	})
	h.writeJSON(rw, http.StatusOK, levels)
}

// GetThresholdHandler возвращает только явно заданные порог и уровень.
// Если не задано ни то, ни другое, отвечает 404.
func (h *Handler) GetThresholdHandler(rw http.ResponseWriter, r *http.Request) {
	key, ok := h.keyParam(rw, r)
	if !ok {
		return
	}
	info := models.ThresholdInfo{Key: key}

	h.Read(func(e *engine.Engine) {
		if v, ok := e.GetThreshold(key); ok {
			info.Threshold = &v
		}
		if l, ok := e.GetLevel(key); ok {
			info.Level = &l
		}
	})

	if info.Threshold == nil && info.Level == nil {
		h.notFound(rw, key)
		return
	}
	h.writeJSON(rw, http.StatusOK, info)
}

func (h *Handler) SetThresholdHandler(rw http.ResponseWriter, r *http.Request) {
	key, ok := h.keyParam(rw, r)
	if !ok {
		return
	}

	var req models.ThresholdRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(rw, "invalid JSON: "+err.Error())
		return
	}
	if req.Value == nil {
		h.badRequest(rw, "threshold value is required")
		return
	}

	err := h.Write(func(e *engine.Engine) error {
		return e.SetThreshold(key, *req.Value, req.Level)
	})
	h.writeResult(rw, nil, err)
}
