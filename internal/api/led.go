package api

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/gray-logic-led/internal/led"
)

// maxCommandBodySize bounds POST /led/{command} bodies. Anything longer
// than a command payload is rejected by the decoder anyway.
const maxCommandBodySize = 1 << 10

// handleGetLED returns the canonical light state.
func (s *Server) handleGetLED(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.state.Snapshot())
}

// handleLEDCommand submits a raw command body, using the same grammar as
// the MQTT command topics.
//
//	POST /api/v1/led/hsb
//	120,255,128
//
// The command is only queued; 202 means the render loop will apply it.
// One trailing line ending is dropped, since shell clients usually add it;
// the rest of the body must match the command grammar exactly.
func (s *Server) handleLEDCommand(w http.ResponseWriter, r *http.Request) {
	kind, err := led.ParseKind(chi.URLParam(r, "command"))
	if err != nil {
		writeNotFound(w, err.Error())
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommandBodySize+1))
	if err != nil {
		writeBadRequest(w, "failed to read request body")
		return
	}
	if len(body) > maxCommandBodySize {
		writeBadRequest(w, "command payload too large")
		return
	}

	body = bytes.TrimSuffix(body, []byte("\n"))
	body = bytes.TrimSuffix(body, []byte("\r"))

	err = s.commands.Submit(kind, body)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]any{
			"status":  "accepted",
			"command": kind,
		})
	case errors.Is(err, led.ErrChannelFull):
		s.logger.Error("update dropped", "command", kind, "error", err)
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "update queue is full, retry later")
	case errors.Is(err, led.ErrUnknownCommand):
		writeNotFound(w, err.Error())
	case errors.Is(err, led.ErrDecode):
		s.logger.Warn("command rejected", "command", kind, "error", err)
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	default:
		writeInternalError(w, "failed to submit command")
	}
}
