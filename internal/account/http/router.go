package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/AlibekovAA/storefront/internal/account/service"
	"github.com/AlibekovAA/storefront/internal/common/dto"
	commonhttp "github.com/AlibekovAA/storefront/internal/common/http"
	"github.com/AlibekovAA/storefront/internal/common/jwtverify"
	"github.com/AlibekovAA/storefront/internal/common/logger"
	"github.com/AlibekovAA/storefront/internal/common/mapper"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Language string `json:"language"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User  dto.User `json:"user"`
	Token string   `json:"token"`
}

type usersResponse struct {
	Users []dto.UserSummary `json:"users"`
}

type Handler struct {
	accounts     *service.AccountService
	errorHandler *commonhttp.ErrorHandler
	log          *logger.Logger
}

// NewHandler mounts the account routes. Listing users requires a bearer token
// signed with jwtSecret.
func NewHandler(accounts *service.AccountService, jwtSecret string, requestTimeout time.Duration, log *logger.Logger) http.Handler {
	h := &Handler{
		accounts:     accounts,
		errorHandler: commonhttp.NewErrorHandler(log),
		log:          log,
	}

	post := commonhttp.RequireMethod(http.MethodPost)
	get := commonhttp.RequireMethod(http.MethodGet)
	timeout := commonhttp.WithTimeout(requestTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/accounts/register", post(timeout(h.register)))
	mux.HandleFunc("/api/accounts/login", post(timeout(h.login)))
	mux.Handle("/api/accounts/users", jwtverify.Middleware(jwtSecret, log)(get(timeout(h.listUsers))))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Language: req.Language,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, sessionResponse{
		User:  mapper.UserToDTO(user),
		Token: user.Token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.accounts.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, sessionResponse{
		User:  mapper.UserToDTO(user),
		Token: user.Token,
	})
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.accounts.ListUsers(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, usersResponse{Users: mapper.UserSummariesToDTO(summaries)})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := commonhttp.DecodeJSON(r, v)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		commonhttp.WriteErrorEnvelope(w, http.StatusRequestEntityTooLarge, commonhttp.CodeRequestTooLarge, "request body too large", nil, commonhttp.TraceIDFromContext(r.Context()))
		return false
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"path":   r.URL.Path,
		"action": "decode_failed",
	}).Warnf("invalid json: %v", err)
	commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, commonhttp.TraceIDFromContext(r.Context()))
	return false
}
