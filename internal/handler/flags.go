package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
)

func (h *Handler) GetAllFlagsHandler(rw http.ResponseWriter, r *http.Request) {
	var flags *models.OrderedMap[bool]
	h.Read(func(e *engine.Engine) {
		flags = e.GetAllFlags()
	})
	h.writeJSON(rw, http.StatusOK, flags)
}

func (h *Handler) GetFlagHandler(rw http.ResponseWriter, r *http.Request) {
	key, ok := h.keyParam(rw, r)
	if !ok {
		return
	}

	var value bool
	h.Read(func(e *engine.Engine) {
		value, ok = e.GetFlag(key)
	})
	if !ok {
		h.notFound(rw, key)
		return
	}
	h.writeJSON(rw, http.StatusOK, models.FlagValue{Key: key, Value: value})
}

func (h *Handler) ToggleFlagHandler(rw http.ResponseWriter, r *http.Request) {
	key, ok := h.keyParam(rw, r)
	if !ok {
		return
	}
	value, err := strconv.ParseBool(chi.URLParam(r, "value"))
	if err != nil {
		h.badRequest(rw, "invalid flag value: "+err.Error())
		return
	}

	err = h.Write(func(e *engine.Engine) error {
		return e.ToggleFlag(key, value)
	})
	h.writeResult(rw, nil, err)
}

func (h *Handler) BatchFlagsHandler(rw http.ResponseWriter, r *http.Request) {
	updates := models.NewOrderedMap[bool]()
	if err := json.NewDecoder(r.Body).Decode(updates); err != nil {
		h.badRequest(rw, "invalid JSON: "+err.Error())
		return
	}

	var applied []string
	err := h.Write(func(e *engine.Engine) error {
		var err error
		applied, err = e.BatchToggleFlags(updates)
		return err
	})
	h.writeResult(rw, applied, err)
}
