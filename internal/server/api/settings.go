package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/ayusman/mudra/internal/store"
)

// Speech rate bounds accepted by browser speech synthesis.
const (
	MinRate = 0.1
	MaxRate = 10.0
)

// Settings are the user-adjustable speech settings.
type Settings struct {
	Lang   string  `json:"lang"`
	Rate   float64 `json:"rate"`
	Notify bool    `json:"notify"`
}

type updateSettingsRequest struct {
	Lang   *string  `json:"lang"`
	Rate   *float64 `json:"rate"`
	Notify *bool    `json:"notify"`
}

// LoadSettings overlays the persisted settings on defaults. Values that do
// not parse are ignored.
func LoadSettings(repo *store.SettingsRepository, defaults Settings) (Settings, error) {
	stored, err := repo.List()
	if err != nil {
		return defaults, err
	}

	s := defaults
	if v, ok := stored[store.KeySpeechLang]; ok && v != "" {
		s.Lang = v
	}
	if v, ok := stored[store.KeySpeechRate]; ok {
		if rate, err := strconv.ParseFloat(v, 64); err == nil && rate >= MinRate && rate <= MaxRate {
			s.Rate = rate
		}
	}
	if v, ok := stored[store.KeySpeechNotify]; ok {
		if notify, err := strconv.ParseBool(v); err == nil {
			s.Notify = notify
		}
	}
	return s, nil
}

// SettingsHandler handles GET and PUT /api/settings.
type SettingsHandler struct {
	repo     *store.SettingsRepository
	defaults Settings
	onChange func(Settings)
	logger   *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler. onChange, if not nil, is
// called with the effective settings after every successful update.
func NewSettingsHandler(repo *store.SettingsRepository, defaults Settings, onChange func(Settings), logger *slog.Logger) *SettingsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{
		repo:     repo,
		defaults: defaults,
		onChange: onChange,
		logger:   logger.With("component", "api.settings"),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := LoadSettings(h.repo, h.defaults)
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	values := make(map[string]string)
	if req.Lang != nil {
		values[store.KeySpeechLang] = *req.Lang
	}
	if req.Rate != nil {
		values[store.KeySpeechRate] = strconv.FormatFloat(*req.Rate, 'f', -1, 64)
	}
	if req.Notify != nil {
		values[store.KeySpeechNotify] = strconv.FormatBool(*req.Notify)
	}

	if err := h.repo.SetAll(values); err != nil {
		h.logger.Error("failed to save settings", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	s, err := LoadSettings(h.repo, h.defaults)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	if h.onChange != nil {
		h.onChange(s)
	}

	h.logger.Info("settings updated", "lang", s.Lang, "rate", s.Rate, "notify", s.Notify)
	writeJSON(w, http.StatusOK, s)
}

var errEmptyLang = errors.New("lang must not be empty")

func (r *updateSettingsRequest) validate() error {
	if r.Lang != nil && *r.Lang == "" {
		return errEmptyLang
	}
	if r.Rate != nil && (*r.Rate < MinRate || *r.Rate > MaxRate) {
		return fmt.Errorf("rate must be between %g and %g", MinRate, MaxRate)
	}
	return nil
}
