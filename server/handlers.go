package server

import (
	"encoding/json"
	"net/http"

	"DriftFM/auth"
	"DriftFM/config"
	"DriftFM/logger"
	"DriftFM/model"
	"DriftFM/player"
	"DriftFM/repository"
	"DriftFM/storage"
)

// APIHandler carries the handler dependencies.
type APIHandler struct {
	cfg         *config.Config
	coordinator *player.Coordinator
	tokens      *auth.TokenHolder
	trackRepo   repository.TrackRepository
	resolver    *storage.MediaResolver
}

// NewAPIHandler creates the handler set.
func NewAPIHandler(
	cfg *config.Config,
	coordinator *player.Coordinator,
	tokens *auth.TokenHolder,
	trackRepo repository.TrackRepository,
	resolver *storage.MediaResolver,
) *APIHandler {
	return &APIHandler{
		cfg:         cfg,
		coordinator: coordinator,
		tokens:      tokens,
		trackRepo:   trackRepo,
		resolver:    resolver,
	}
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			logger.Warn("failed to encode response", logger.ErrorField(err))
		}
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// stateResponse bundles both observable state surfaces.
type stateResponse struct {
	Playback player.Snapshot       `json:"playback"`
	AdGate   player.AdGateSnapshot `json:"adGate"`
}

func (h *APIHandler) currentState() stateResponse {
	return stateResponse{
		Playback: h.coordinator.Snapshot(),
		AdGate:   h.coordinator.AdGateSnapshot(),
	}
}

// StateHandler returns the current playback and ad gate state.
func (h *APIHandler) StateHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.currentState())
}

// HistoryHandler returns the play history, most recent first.
func (h *APIHandler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.coordinator.History().Items())
}

// PlayHandler plays a single track, resetting the queue to it.
func (h *APIHandler) PlayHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrackID int64 `json:"trackId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	catalogTrack, err := h.trackRepo.GetTrackByID(req.TrackID)
	if err != nil {
		writeError(w, http.StatusNotFound, "track not found")
		return
	}

	track, err := h.resolveTrack(r, *catalogTrack)
	if err != nil {
		logger.Error("failed to resolve media URL",
			logger.Int64("trackId", req.TrackID), logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to resolve media")
		return
	}

	h.coordinator.PlaySingle(track)
	writeJSON(w, http.StatusOK, h.currentState())
}

// QueueHandler replaces the queue from a list of catalog track ids.
func (h *APIHandler) QueueHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrackIDs   []int64 `json:"trackIds"`
		StartIndex int     `json:"startIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	catalogTracks, err := h.trackRepo.GetTracksByIDs(req.TrackIDs)
	if err != nil {
		logger.Error("failed to fetch queue tracks", logger.ErrorField(err))
		writeError(w, http.StatusInternalServerError, "failed to fetch tracks")
		return
	}

	tracks := make([]model.Track, 0, len(catalogTracks))
	for _, ct := range catalogTracks {
		track, err := h.resolveTrack(r, ct)
		if err != nil {
			logger.Warn("skipping track with unresolvable media",
				logger.Int64("trackId", ct.Track.ID), logger.ErrorField(err))
			continue
		}
		tracks = append(tracks, track)
	}

	h.coordinator.PlayFromList(tracks, req.StartIndex)
	writeJSON(w, http.StatusOK, h.currentState())
}

// ToggleHandler toggles play/pause.
func (h *APIHandler) ToggleHandler(w http.ResponseWriter, r *http.Request) {
	h.coordinator.TogglePlayPause()
	writeJSON(w, http.StatusOK, h.currentState())
}

// NextHandler skips to the next track.
func (h *APIHandler) NextHandler(w http.ResponseWriter, r *http.Request) {
	h.coordinator.SkipNext()
	writeJSON(w, http.StatusOK, h.currentState())
}

// PreviousHandler skips to the previous track or restarts the current one.
func (h *APIHandler) PreviousHandler(w http.ResponseWriter, r *http.Request) {
	h.coordinator.SkipPrevious()
	writeJSON(w, http.StatusOK, h.currentState())
}

// SeekHandler seeks to a UI-relative position.
func (h *APIHandler) SeekHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Position float64 `json:"position"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.coordinator.Seek(req.Position)
	writeJSON(w, http.StatusOK, h.currentState())
}

// VolumeHandler sets the volume.
func (h *APIHandler) VolumeHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Volume float64 `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	h.coordinator.SetVolume(req.Volume)
	writeJSON(w, http.StatusOK, h.currentState())
}

// ShuffleHandler toggles shuffle mode.
func (h *APIHandler) ShuffleHandler(w http.ResponseWriter, r *http.Request) {
	h.coordinator.ToggleShuffle()
	writeJSON(w, http.StatusOK, h.currentState())
}

// RepeatHandler cycles the repeat mode.
func (h *APIHandler) RepeatHandler(w http.ResponseWriter, r *http.Request) {
	h.coordinator.CycleRepeat()
	writeJSON(w, http.StatusOK, h.currentState())
}

// FinishAdHandler closes the ad gate and resumes the pending request.
func (h *APIHandler) FinishAdHandler(w http.ResponseWriter, r *http.Request) {
	h.coordinator.FinishAd()
	writeJSON(w, http.StatusOK, h.currentState())
}

// SetTokenHandler attaches an access token to the session. The token is
// issued elsewhere (login/refresh are not this engine's concern); the UI
// just hands it over.
func (h *APIHandler) SetTokenHandler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.tokens.Set(req.Token); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": true})
}

// ClearTokenHandler drops the access token, returning to guest mode.
func (h *APIHandler) ClearTokenHandler(w http.ResponseWriter, r *http.Request) {
	h.tokens.Clear()
	writeJSON(w, http.StatusOK, map[string]bool{"authenticated": false})
}

// resolveTrack fills in the presigned media and cover URLs.
func (h *APIHandler) resolveTrack(r *http.Request, ct repository.CatalogTrack) (model.Track, error) {
	track := ct.Track

	mediaURL, err := h.resolver.ResolveURL(r.Context(), ct.MediaKey)
	if err != nil {
		return model.Track{}, err
	}
	track.MediaURL = mediaURL

	coverURL, err := h.resolver.ResolveURL(r.Context(), ct.CoverKey)
	if err != nil {
		// A missing cover never blocks playback.
		logger.Warn("failed to resolve cover URL",
			logger.Int64("trackId", ct.Track.ID), logger.ErrorField(err))
	} else {
		track.CoverURL = coverURL
	}
	return track, nil
}
