package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"

	"github.com/troycsc/desk-services/internal/cardsvc/service"
	"github.com/troycsc/desk-services/internal/cardsvc/store"
)

type Handler struct {
	requests *service.RequestService
	cards    *service.CardService
	logs     *service.LogService
	auth     *service.AuthService

	tokenAuth *jwtauth.JWTAuth
	maxUpload int64
	port      string
}

type Options struct {
	Port        string
	MaxUploadMB int
	TokenAuth   *jwtauth.JWTAuth // nil leaves the staff routes open
}

func NewHandler(st service.Store, publisher service.Publisher, opts Options) *Handler {
	maxUpload := int64(opts.MaxUploadMB) << 20
	if maxUpload <= 0 {
		maxUpload = 20 << 20
	}
	return &Handler{
		requests:  service.NewRequestService(st, publisher),
		cards:     service.NewCardService(st, publisher),
		logs:      service.NewLogService(st),
		auth:      service.NewAuthService(st, opts.TokenAuth),
		tokenAuth: opts.TokenAuth,
		maxUpload: maxUpload,
		port:      opts.Port,
	}
}

type Response struct {
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Error   string      `json:"error"`
}

func (h *Handler) CreateResponse(w http.ResponseWriter, rsp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(rsp.Code)
	if err := json.NewEncoder(w).Encode(rsp); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.CreateResponse(w, Response{
		Message: "desk service is running at port " + h.port,
		Code:    http.StatusOK,
	})
}

type message struct {
	Message string `json:"message"`
}

type errorBody struct {
	Error string `json:"error"`
}

// writeJSON answers the desk UI, which expects bare documents rather than
// the Response envelope.
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

// writeFailure maps service and store errors onto status codes. notFound is
// the message for a missing document.
func writeFailure(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Message)
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, notFound)
	case errors.Is(err, store.ErrInvalidID):
		writeError(w, http.StatusBadRequest, "Invalid id")
	case errors.Is(err, store.ErrCardAssigned):
		writeError(w, http.StatusBadRequest, "Card already assigned")
	case errors.Is(err, store.ErrCardNotAssigned):
		writeError(w, http.StatusBadRequest, "Card is not currently assigned")
	case errors.Is(err, store.ErrCardInactive):
		writeError(w, http.StatusBadRequest, "Card is inactive")
	case errors.Is(err, service.ErrRequestCompleted):
		writeError(w, http.StatusBadRequest, "Request already completed")
	case errors.Is(err, store.ErrDuplicate):
		writeError(w, http.StatusConflict, "Already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	default:
		log.Errorf("Error [%s %s] %s", r.Method, r.URL.Path, err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.ValidationError{Message: "Invalid JSON body"}
	}
	return nil
}

// staff is the desk user behind the request, empty when auth is off.
func (h *Handler) staff(r *http.Request) service.Staff {
	if h.tokenAuth == nil {
		return service.Staff{}
	}
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return service.Staff{}
	}
	return service.StaffFromClaims(claims)
}
