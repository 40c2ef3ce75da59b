package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pricematch-service/internal/progress"
)

// без трафика прокси рвут простаивающий поток
const keepAlive = 15 * time.Second

// Logs отдаёт на GET /api/match/logs строки прогресса как text/event-stream.
// Поток заканчивается после DONE или когда клиент отключился.
func Logs(hub *progress.Hub, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// подписка до заголовков: строки, пришедшие пока клиент ждёт ответ, не теряются
		sub := hub.Subscribe()
		defer sub.Close()

		rc := http.NewResponseController(w)
		h := w.Header()
		h.Set("Content-Type", "text/event-stream")
		h.Set("Cache-Control", "no-cache")
		h.Set("Connection", "keep-alive")
		h.Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		if err := rc.Flush(); err != nil {
			logger.Error().Err(err).Msg("progress stream: flush unsupported")
			return
		}

		log := zerolog.Ctx(r.Context()).With().Str("sub", sub.ID()).Logger()
		log.Debug().Msg("progress subscriber attached")
		defer log.Debug().Msg("progress subscriber detached")

		for {
			wait, cancel := context.WithTimeout(r.Context(), keepAlive)
			line, ok := sub.Next(wait)
			cancel()
			if !ok {
				if r.Context().Err() != nil {
					return
				}
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
					return
				}
				_ = rc.Flush()
				continue
			}
			if err := writeEvent(w, line); err != nil {
				return
			}
			_ = rc.Flush()
			if line == progress.Done {
				return
			}
		}
	}
}

// многострочное сообщение идёт несколькими data: в одном событии
func writeEvent(w http.ResponseWriter, line string) error {
	var b strings.Builder
	for _, part := range strings.Split(line, "\n") {
		b.WriteString("data: ")
		b.WriteString(strings.TrimRight(part, "\r"))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, err := w.Write([]byte(b.String()))
	return err
}
