package controllers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/brickfolio/marketplace-backend/models"
	"github.com/brickfolio/marketplace-backend/session"
	"github.com/brickfolio/marketplace-backend/storage"
	"github.com/brickfolio/marketplace-backend/utils"
)

type Response struct {
	Message string `json:"message"`
	Token   string `json:"token,omitempty"`
}

// AuthDeps gathers everything the auth handlers close over.
type AuthDeps struct {
	Store      storage.Store
	Sessions   session.Store
	JWTKey     []byte
	SessionTTL time.Duration
	OTPSender  utils.OTPSender
	OTP        *OTPStore
}

// OTPStore stashes pending one-time codes by phone number.
type OTPStore struct {
	mu      sync.Mutex
	pending map[string]otpEntry
}

type otpEntry struct {
	code      string
	expiresAt time.Time
}

const otpTTL = 5 * time.Minute

func NewOTPStore() *OTPStore {
	return &OTPStore{pending: make(map[string]otpEntry)}
}

func (s *OTPStore) put(phone, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[phone] = otpEntry{code: code, expiresAt: time.Now().Add(otpTTL)}
}

// consume removes and checks the code; a code is valid at most once.
func (s *OTPStore) consume(phone, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.pending[phone]
	if !ok {
		return false
	}
	delete(s.pending, phone)
	return time.Now().Before(entry.expiresAt) && entry.code == code
}

// issueSession generates a token and registers it in the session store.
func issueSession(r *http.Request, deps AuthDeps, user models.User) (string, error) {
	token, err := utils.GenerateJWT(deps.JWTKey, user.ID, string(user.Role), deps.SessionTTL)
	if err != nil {
		return "", err
	}
	sess := session.Session{UserID: user.ID, Role: string(user.Role)}
	if err := deps.Sessions.Save(r.Context(), token, sess, deps.SessionTTL); err != nil {
		return "", err
	}
	return token, nil
}

func RegisterUser(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Info("invalid register payload", "err", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			slog.Info("register validation failed", "err", err)
			http.Error(w, "Invalid request payload", http.StatusBadRequest)
			return
		}
		role := models.Role(req.Role)
		if !role.Valid() || role == models.RoleAdmin {
			http.Error(w, "Invalid role", http.StatusBadRequest)
			return
		}

		hashedPwd, err := utils.HashPassword(req.Password)
		if err != nil {
			slog.Error("failed to hash password", "err", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		user, err := deps.Store.CreateUser(r.Context(), models.User{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Password: hashedPwd,
			Role:     role,
		})
		if err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				slog.Info("registration conflict", "email", req.Email)
				http.Error(w, "Email or phone already exists", http.StatusConflict)
				return
			}
			slog.Error("failed to create user", "err", err)
			http.Error(w, "Failed to create user", http.StatusInternalServerError)
			return
		}

		token, err := issueSession(r, deps, user)
		if err != nil {
			slog.Error("failed to issue session", "err", err)
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, Response{Message: "User registered successfully", Token: token})
	}
}

func LoginUser(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Info("invalid login payload", "err", err)
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		user, err := deps.Store.GetUserByEmail(r.Context(), req.Email)
		if err != nil {
			slog.Info("login for unknown user", "email", req.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		if !utils.CheckPasswordHash(req.Password, user.Password) {
			slog.Info("invalid credentials", "email", req.Email)
			http.Error(w, "Invalid credentials", http.StatusUnauthorized)
			return
		}

		token, err := issueSession(r, deps, user)
		if err != nil {
			slog.Error("failed to issue session", "err", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, Response{Message: "Login successful", Token: token})
	}
}

func LogoutUser(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := r.Context().Value(TokenKey).(string)
		if !ok {
			http.Error(w, "Missing session", http.StatusUnauthorized)
			return
		}
		if err := deps.Sessions.Delete(r.Context(), token); err != nil {
			slog.Error("failed to delete session", "err", err)
			http.Error(w, "Failed to log out", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, Response{Message: "Logged out"})
	}
}

type otpRequest struct {
	Phone string `json:"phone" validate:"required"`
}

type otpVerifyRequest struct {
	Phone string `json:"phone" validate:"required"`
	OTP   string `json:"otp" validate:"required,len=6"`
}

// RequestOTP issues a login code for a registered phone number. The code
// goes out through the sender only; the response never carries it.
func RequestOTP(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req otpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if _, err := deps.Store.GetUserByPhone(r.Context(), req.Phone); err != nil {
			// Same response as success so phone numbers cannot be probed.
			slog.Info("otp requested for unknown phone")
			writeJSON(w, http.StatusOK, Response{Message: "If the number is registered, a code has been sent"})
			return
		}

		code, err := utils.GenerateOTP()
		if err != nil {
			slog.Error("failed to generate otp", "err", err)
			http.Error(w, "Failed to send code", http.StatusInternalServerError)
			return
		}
		deps.OTP.put(req.Phone, code)

		if err := deps.OTPSender.Send(r.Context(), req.Phone, code); err != nil {
			slog.Error("failed to deliver otp", "err", err)
			http.Error(w, "Failed to send code", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, Response{Message: "If the number is registered, a code has been sent"})
	}
}

func VerifyOTP(deps AuthDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req otpVerifyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
		if err := utils.ValidateStruct(req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if !deps.OTP.consume(req.Phone, req.OTP) {
			slog.Info("otp verification failed", "phone", req.Phone)
			http.Error(w, "Invalid or expired code", http.StatusUnauthorized)
			return
		}

		user, err := deps.Store.GetUserByPhone(r.Context(), req.Phone)
		if err != nil {
			http.Error(w, "Invalid or expired code", http.StatusUnauthorized)
			return
		}

		token, err := issueSession(r, deps, user)
		if err != nil {
			slog.Error("failed to issue session", "err", err)
			http.Error(w, "Failed to generate token", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, Response{Message: "Login successful", Token: token})
	}
}
