package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/sgksm85/beauty-clinic-message-card/internal/cardsvc/service"
	"github.com/sgksm85/beauty-clinic-message-card/internal/comm"
)

type Handler struct {
	tokenAuth   *jwtauth.JWTAuth
	cardService *service.CardService
}

func NewHandler(cardService *service.CardService) *Handler {
	return &Handler{cardService: cardService}
}

func (h *Handler) CreateResponse(w http.ResponseWriter, code int, message string, data interface{}, errMsg string) {
	rsp := comm.Response{
		Message: message,
		Code:    code,
		Error:   errMsg,
	}

	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			log.Errorf("Error marshaling response data %s", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		rsp.Data = raw
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	json.NewEncoder(w).Encode(rsp)
}

func (h *Handler) CreateCardHandler(w http.ResponseWriter, r *http.Request) {
	var req comm.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.CreateResponse(w, http.StatusBadRequest, "", nil, "malformed request body")
		return
	}

	input := service.CreateInput{
		TemplateID: req.TemplateID,
		Message:    req.Message,
		SenderName: req.SenderName,
		UserID:     userIDFromToken(r),
	}

	id, err := h.cardService.Create(r.Context(), input)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			h.CreateResponse(w, http.StatusBadRequest, "", nil, err.Error())
			return
		}
		log.Errorf("Error [CardService.Create] %s", err)
		h.CreateResponse(w, http.StatusInternalServerError, "", nil, "failed to create card")
		return
	}

	h.CreateResponse(w, http.StatusCreated, "card created", comm.CreateCardResponse{ID: id}, "")
}

func (h *Handler) GetCardHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	card, err := h.cardService.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			// same body whether the card never existed or was deactivated
			h.CreateResponse(w, http.StatusNotFound, "", nil, service.ErrNotFound.Error())
			return
		}
		log.Errorf("Error [CardService.GetByID] %s", err)
		h.CreateResponse(w, http.StatusInternalServerError, "", nil, "failed to get card")
		return
	}

	data := comm.CardData{
		ID:         card.ID,
		TemplateID: card.TemplateID,
		Message:    card.Message,
		SenderName: card.SenderName,
		IsActive:   card.IsActive,
		CreatedAt:  card.CreatedAt,
	}

	h.CreateResponse(w, http.StatusOK, "", data, "")
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, http.StatusOK, "card service is running at port "+os.Getenv("CARD_SERVICE_PORT"), nil, "")
}

// userIDFromToken pulls the optional creator identity off a verified session
// token. Anonymous requests are fine; no endpoint requires a user.
func userIDFromToken(r *http.Request) *int64 {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return nil
	}

	v, ok := claims["user_id"]
	if !ok {
		return nil
	}

	f, ok := v.(float64)
	if !ok {
		return nil
	}

	id := int64(f)
	return &id
}
