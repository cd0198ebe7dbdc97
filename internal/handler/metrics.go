package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
)

func (h *Handler) GetAllMetricsHandler(rw http.ResponseWriter, r *http.Request) {
	var metrics *models.OrderedMap[int64]
	h.Read(func(e *engine.Engine) {
		metrics = e.GetAllMetrics()
	})
	h.writeJSON(rw, http.StatusOK, metrics)
}

func (h *Handler) GetMetricHandler(rw http.ResponseWriter, r *http.Request) {
	key, ok := h.keyParam(rw, r)
	if !ok {
		return
	}

	var value int64
	h.Read(func(e *engine.Engine) {
		value, ok = e.GetMetric(key)
	})
	if !ok {
		h.notFound(rw, key)
		return
	}
	h.writeJSON(rw, http.StatusOK, models.MetricValue{Key: key, Value: value})
}

func (h *Handler) UpdateMetricHandler(rw http.ResponseWriter, r *http.Request) {
	key, ok := h.keyParam(rw, r)
	if !ok {
		return
	}
	value, err := strconv.ParseInt(chi.URLParam(r, "value"), 10, 64)
	if err != nil {
		h.badRequest(rw, "invalid metric value: "+err.Error())
		return
	}

	err = h.Write(func(e *engine.Engine) error {
		return e.UpdateMetric(key, value)
	})
	h.logger.Debugw("Metric updated", "key", key, "value", value, "error", err)
	h.writeResult(rw, nil, err)
}

// BatchMetricsHandler принимает JSON-объект {"key": value, ...}.
// Записи применяются в порядке ключей в теле запроса.
func (h *Handler) BatchMetricsHandler(rw http.ResponseWriter, r *http.Request) {
	updates := models.NewOrderedMap[int64]()
	if err := json.NewDecoder(r.Body).Decode(updates); err != nil {
		h.badRequest(rw, "invalid JSON: "+err.Error())
		return
	}

	var applied []string
	err := h.Write(func(e *engine.Engine) error {
		var err error
		applied, err = e.BatchUpdateMetrics(updates)
		return err
	})
	h.writeResult(rw, applied, err)
}
