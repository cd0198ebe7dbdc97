package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"

	"github.com/levinOo/go-state-mirror/internal/engine"
	"github.com/levinOo/go-state-mirror/internal/models"
)

// writeJSON кодирует v через буфер из пула и отправляет его одним вызовом Write.
func (h *Handler) writeJSON(rw http.ResponseWriter, status int, v any) {
	buf := h.buffers.Get()
	defer h.buffers.Put(buf)

	if err := json.NewEncoder(buf).Encode(v); err != nil {
		h.logger.Errorw("Response encode error", "error", err)
		rw.WriteHeader(http.StatusInternalServerError)
		return
	}

	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if _, err := rw.Write(buf.Bytes()); err != nil {
		h.logger.Errorw("Response write error", "error", err)
	}
}

// writeResult отвечает на операцию записи. Ошибки движка отображаются так:
// некорректный аргумент 400, отсутствие 404, остановленный пакет 400 со списком
// применённых ключей, сбой хука 200 с полем hook_error (запись применена).
func (h *Handler) writeResult(rw http.ResponseWriter, applied []string, err error) {
	result := models.WriteResult{Status: "ok", Applied: applied}
	if err == nil {
		h.writeJSON(rw, http.StatusOK, result)
		return
	}

	var batchErr *engine.BatchError
	switch {
	case errors.As(err, &batchErr):
		result.Status = "error"
		result.Applied = append([]string{}, batchErr.Applied...)
		result.Error = batchErr.Error()
		h.writeJSON(rw, http.StatusBadRequest, result)
	case errors.Is(err, engine.ErrInvalidArgument):
		result.Status = "error"
		result.Error = err.Error()
		h.writeJSON(rw, http.StatusBadRequest, result)
	case errors.Is(err, engine.ErrNotFound):
		result.Status = "error"
		result.Error = err.Error()
		h.writeJSON(rw, http.StatusNotFound, result)
	case errors.Is(err, engine.ErrHookFailure):
		result.HookError = err.Error()
		h.writeJSON(rw, http.StatusOK, result)
	default:
		h.logger.Errorw("Unexpected engine error", "error", err)
		result.Status = "error"
		result.Error = err.Error()
		h.writeJSON(rw, http.StatusInternalServerError, result)
	}
}

func (h *Handler) badRequest(rw http.ResponseWriter, msg string) {
	h.writeJSON(rw, http.StatusBadRequest, models.WriteResult{Status: "error", Error: msg})
}

func (h *Handler) notFound(rw http.ResponseWriter, key string) {
	h.writeJSON(rw, http.StatusNotFound, models.WriteResult{Status: "error", Error: key + ": " + engine.ErrNotFound.Error()})
}

// keyParam возвращает ключ из пути. chi сопоставляет маршрут по r.URL.RawPath,
// если он задан, поэтому ключ с экранированным "/" нужно раскодировать.
// При ошибке отвечает 400 и возвращает ok=false.
func (h *Handler) keyParam(rw http.ResponseWriter, r *http.Request) (string, bool) {
	key := chi.URLParam(r, "key")
	if r.URL.RawPath == "" {
		return key, true
	}

	unescaped, err := url.PathUnescape(key)
	if err != nil {
		h.badRequest(rw, "invalid key: "+err.Error())
		return "", false
	}
	return unescaped, true
}
