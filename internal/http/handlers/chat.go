package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"server/internal/providers/chat"
)

// chatApology is returned whenever the completion upstream fails; the chat
// surface never propagates provider errors to the user.
const chatApology = "Sorry, ik kan je vraag nu even niet beantwoorden. Probeer het zo nog eens."

// ChatReq carries a free-text message plus the prior conversation turns.
type ChatReq struct {
	Message string      `json:"message"`
	History []chat.Turn `json:"history,omitempty"`
}

type chatResp struct {
	Reply string `json:"reply"`
}

// ChatHandler delegates the conversation to the completion provider.
func (a *App) ChatHandler(w http.ResponseWriter, r *http.Request) {
	var req ChatReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		a.error(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := a.Chat.Reply(r.Context(), req.History, req.Message)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("chat provider failed, sending apology")
		a.json(w, http.StatusOK, chatResp{Reply: chatApology})
		return
	}
	a.json(w, http.StatusOK, chatResp{Reply: reply})
}
