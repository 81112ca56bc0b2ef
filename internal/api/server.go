package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lectureflow/internal/config"
	"lectureflow/internal/models"
	"lectureflow/internal/providers"
	"lectureflow/internal/rag"
	"lectureflow/internal/status"
	"lectureflow/internal/storage"
	"lectureflow/internal/util"
	"lectureflow/internal/vector"
	"lectureflow/internal/workflows"

	"github.com/google/uuid"
	enumspb "go.temporal.io/api/enums/v1"
	tclient "go.temporal.io/sdk/client"
)

var allowedVideoExts = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mov":  true,
	".mkv":  true,
	".webm": true,
}

type Server struct {
	cfg      config.Config
	db       *storage.DB
	videos   status.Store
	composer *rag.Composer
	temporal tclient.Client
}

func NewServer(cfg config.Config) *Server {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var db *storage.DB
	var videos status.Store
	var store vector.Store
	if strings.TrimSpace(cfg.PostgresURL) != "" {
		var err error
		db, err = storage.NewDB(ctx, cfg.PostgresURL)
		if err != nil {
			panic(err)
		}
		videos = storage.NewVideoRepo(db)
		store = vector.NewPGStore(db.Pool)
	} else {
		videos = status.NewMemoryStore()
		store = vector.NewMemoryStore()
	}

	pm, err := providers.NewManager(cfg)
	if err != nil {
		panic(err)
	}
	tc, err := tclient.Dial(tclient.Options{HostPort: cfg.TemporalAddress})
	if err != nil {
		panic(err)
	}

	retriever := rag.NewRetriever(store, providers.NewFallbackEmbedder(pm), cfg.EmbedDim)
	composer := rag.NewComposer(retriever, providers.NewFallbackLLM(pm), cfg.ChatTopK, cfg.SummaryTopK)

	return &Server{
		cfg:      cfg,
		db:       db,
		videos:   videos,
		composer: composer,
		temporal: tc,
	}
}

func (s *Server) Close() {
	if s.temporal != nil {
		s.temporal.Close()
	}
	s.db.Close()
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/videos", s.handleVideos)
	mux.HandleFunc("/videos/", s.handleVideoScoped)
	mux.HandleFunc("/chat", s.handleChat)
	return withCORS(mux)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		videos, err := s.videos.List(r.Context())
		if err != nil {
			writeErr(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"videos": videos})
	case http.MethodPost:
		s.handleUpload(w, r)
	default:
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
	}
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("parse multipart: %w", err))
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("no file provided"))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedVideoExts[ext] {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("unsupported video format: %s", ext))
		return
	}

	if err := util.EnsureDir(s.cfg.UploadRoot); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	videoID := uuid.NewString()
	filename := filepath.Base(header.Filename)
	savedPath := util.SafeJoin(s.cfg.UploadRoot, videoID+"_"+filename)
	if err := saveUploadedFile(file, savedPath); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	if err := s.videos.Upsert(r.Context(), models.Video{
		VideoID:  videoID,
		Filename: filename,
		Status:   models.StatusUploaded,
		Progress: 0,
	}); err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}

	we, err := s.temporal.ExecuteWorkflow(r.Context(), tclient.StartWorkflowOptions{
		ID:                                       "video-" + videoID,
		TaskQueue:                                s.cfg.TemporalTaskQueue,
		WorkflowIDReusePolicy:                    enumspb.WORKFLOW_ID_REUSE_POLICY_ALLOW_DUPLICATE,
		WorkflowExecutionErrorWhenAlreadyStarted: true,
	}, workflows.VideoProcessWorkflow, workflows.VideoProcessInput{
		VideoID:   videoID,
		VideoPath: savedPath,
		Filename:  filename,
	})
	if err != nil {
		writeErr(w, http.StatusConflict, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"video_id":    videoID,
		"filename":    filename,
		"status":      models.StatusUploaded,
		"workflow_id": we.GetID(),
		"run_id":      we.GetRunID(),
	})
}

func (s *Server) handleVideoScoped(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(strings.TrimPrefix(r.URL.Path, "/videos/"), "/"), "/")
	if len(parts) < 1 || parts[0] == "" {
		writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
		return
	}
	videoID := parts[0]

	if len(parts) == 1 {
		if r.Method != http.MethodGet {
			writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
			return
		}
		v, err := s.videos.Get(r.Context(), videoID)
		if err != nil {
			writeErr(w, videoErrStatus(err), err)
			return
		}
		writeJSON(w, http.StatusOK, v)
		return
	}

	if len(parts) == 2 {
		switch parts[1] {
		case "status":
			s.handleVideoStatus(w, r, videoID)
			return
		case "file":
			s.handleVideoFile(w, r, videoID)
			return
		case "summary":
			s.handleVideoSummary(w, r, videoID)
			return
		}
	}
	writeErr(w, http.StatusNotFound, fmt.Errorf("not found"))
}

func (s *Server) handleVideoStatus(w http.ResponseWriter, r *http.Request, videoID string) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	// Prefer the live workflow view; fall back to the store once the
	// workflow has closed.
	resp, err := s.temporal.QueryWorkflow(r.Context(), "video-"+videoID, "", workflows.QueryGetProgress)
	if err == nil {
		var prog workflows.VideoProcessProgress
		if err := resp.Get(&prog); err == nil {
			writeJSON(w, http.StatusOK, prog)
			return
		}
	}
	v, err := s.videos.Get(r.Context(), videoID)
	if err != nil {
		writeErr(w, videoErrStatus(err), err)
		return
	}
	writeJSON(w, http.StatusOK, workflows.VideoProcessProgress{
		VideoID:  v.VideoID,
		Status:   v.Status,
		Progress: v.Progress,
		Message:  v.Message,
		Language: v.Language,
		Duration: v.Duration,
	})
}

func (s *Server) handleVideoFile(w http.ResponseWriter, r *http.Request, videoID string) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	v, err := s.videos.Get(r.Context(), videoID)
	if err != nil {
		writeErr(w, videoErrStatus(err), err)
		return
	}
	path := util.SafeJoin(s.cfg.UploadRoot, videoID+"_"+v.Filename)
	if _, err := os.Stat(path); err != nil {
		writeErr(w, http.StatusNotFound, fmt.Errorf("video file missing"))
		return
	}
	http.ServeFile(w, r, path)
}

func (s *Server) handleVideoSummary(w http.ResponseWriter, r *http.Request, videoID string) {
	if r.Method != http.MethodGet {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	v, err := s.videos.Get(r.Context(), videoID)
	if err != nil {
		writeErr(w, videoErrStatus(err), err)
		return
	}
	if v.Status != models.StatusCompleted {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("video not ready: status is %s", v.Status))
		return
	}
	summary, err := s.composer.Summarize(r.Context(), videoID)
	if err != nil {
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeErr(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed"))
		return
	}
	var req struct {
		VideoID string `json:"video_id"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req.VideoID = strings.TrimSpace(req.VideoID)
	req.Message = strings.TrimSpace(req.Message)
	if req.VideoID == "" || req.Message == "" {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("video_id and message are required"))
		return
	}

	v, err := s.videos.Get(r.Context(), req.VideoID)
	if err != nil {
		writeErr(w, videoErrStatus(err), err)
		return
	}
	if v.Status != models.StatusCompleted {
		writeErr(w, http.StatusBadRequest, fmt.Errorf("video not ready: status is %s", v.Status))
		return
	}

	answer, err := s.composer.Answer(r.Context(), req.Message, req.VideoID)
	if err != nil {
		if errors.Is(err, rag.ErrVideoNotIndexed) {
			writeErr(w, http.StatusConflict, err)
			return
		}
		writeErr(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}

func videoErrStatus(err error) int {
	if errors.Is(err, status.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func saveUploadedFile(src multipart.File, dst string) error {
	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create upload file: %w", err)
	}
	defer out.Close()
	if _, err := io.Copy(out, src); err != nil {
		return fmt.Errorf("write upload file: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, err error) {
	apiErr := toAPIError(code, err)
	writeJSON(w, code, map[string]any{
		"error": map[string]any{
			"code":    apiErr.Code,
			"message": apiErr.Message,
		},
	})
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toAPIError(status int, err error) apiError {
	msg := "Request failed."
	code := "LEC-API-4000"
	raw := ""
	if err != nil {
		raw = strings.ToLower(err.Error())
	}

	switch {
	case status >= 500:
		switch {
		case strings.Contains(raw, "relation") && strings.Contains(raw, "does not exist"):
			return apiError{
				Code:    "LEC-DB-5001",
				Message: "Database schema is not initialized. Restart the service to apply it.",
			}
		case strings.Contains(raw, "connect"), strings.Contains(raw, "dial tcp"), strings.Contains(raw, "connection refused"):
			return apiError{
				Code:    "LEC-DB-5002",
				Message: "Database connection is unavailable. Check local services and retry.",
			}
		default:
			return apiError{
				Code:    "LEC-API-5000",
				Message: "Internal server error. Please retry or check service logs.",
			}
		}
	case status == http.StatusBadRequest:
		code = "LEC-API-4001"
		msg = "Invalid request. Check inputs and retry."
	case status == http.StatusNotFound:
		code = "LEC-API-4004"
		msg = "Requested resource was not found."
	case status == http.StatusConflict:
		code = "LEC-API-4009"
		msg = "Operation conflicts with current state. Retry after checking status."
	case status == http.StatusMethodNotAllowed:
		code = "LEC-API-4005"
		msg = "This endpoint does not support the requested method."
	}

	// For 4xx, keep user-safe validation context only.
	if status >= 400 && status < 500 && err != nil {
		switch {
		case strings.Contains(raw, "unsupported video format"):
			msg = "Unsupported video format. Use mp4, avi, mov, mkv or webm."
		case strings.Contains(raw, "no file provided"):
			msg = "No video file was provided."
		case strings.Contains(raw, "video_id and message are required"):
			msg = "Both video and message are required."
		case strings.Contains(raw, "video not ready"):
			msg = "Video processing has not completed yet. Check status and retry."
		case strings.Contains(raw, "video not indexed"):
			msg = "This video has no searchable index. Re-run processing and retry."
		case strings.Contains(raw, "invalid json"):
			msg = "Malformed JSON request body."
		}
	}

	return apiError{Code: code, Message: msg}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
