package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"pricematch-service/internal/middleware"
	"pricematch-service/internal/pricematch/errs"
	"pricematch-service/internal/pricematch/service"
	"pricematch-service/internal/progress"
)

// в памяти держим до 32MB загрузки, остальное multipart сбросит во временный файл
const multipartMemory = 32 << 20

// Match возвращает http.HandlerFunc для POST /api/match.
// Поля формы: file, <provider>Key (openaiKey, cohereKey, ...).
func Match(m *service.Matcher, sink progress.Sink, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rid := middleware.GetRequestID(r)
		log := logger.With().Str("rid", rid).Logger()

		defer r.Body.Close()
		if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			writeError(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}

		req := service.Request{RequestID: rid, Sink: sink, Credentials: map[string]string{}}
		if file, header, err := r.FormFile("file"); err == nil {
			data, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				writeError(w, http.StatusBadRequest, "failed to read upload: "+err.Error())
				return
			}
			req.FileName, req.Data = header.Filename, data
		}
		for _, name := range m.ProviderNames() {
			req.Credentials[name] = r.FormValue(name + "Key")
		}

		// Прогон не прерывается, если клиент ушёл: результат просто выбрасывается.
		res, err := m.Match(context.WithoutCancel(r.Context()), req)
		if r.Context().Err() != nil {
			log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("client gone, match result discarded")
			return
		}
		if err != nil {
			// плохая загрузка и отказ провайдера для клиента выглядят одинаково
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusOK, res)
		log.Info().
			Str("file", req.FileName).
			Int("items", len(res)).
			Dur("elapsed", time.Since(start)).
			Msg("price match done")
	}
}

// catalog errors that are the file's fault surface as 400, the rest as 500
func statusFor(err error) int {
	var pe *errs.ParseError
	var ve *errs.ValidationError
	if errors.As(err, &pe) || errors.As(err, &ve) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
