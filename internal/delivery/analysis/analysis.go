package analysis

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"stockfish_harness/internal/bootstrap"
	"stockfish_harness/internal/chess960"
	"stockfish_harness/internal/domain"
	errs "stockfish_harness/internal/errors"
	"stockfish_harness/internal/httpresponse"
	"stockfish_harness/internal/report"
	"stockfish_harness/internal/utils"
)

type AnalysisUseCase interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisRecord, error)
	AnalyzeChess960(ctx context.Context, id int, params domain.AnalysisRequest) (domain.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, id string) (domain.AnalysisRecord, error)
	EngineInfo(ctx context.Context) (domain.EngineInfo, error)
}

// AnalyzeRequest is the wire form of domain.AnalysisRequest. Absent numbers take the configured defaults.
type AnalyzeRequest struct {
	Fen              string `json:"Fen"`
	AnalysisDepth    *int   `json:"AnalysisDepth,omitempty"`
	MinAnalysisDepth *int   `json:"MinAnalysisDepth,omitempty"`
	CpLossThreshold  *int   `json:"CpLossThreshold,omitempty"`
}

// StreamReply answers one websocket request. Exactly one of Result and Error is set.
type StreamReply struct {
	RequestID  string                 `json:"RequestID"`
	AnalysisID string                 `json:"AnalysisID,omitempty"`
	Result     *domain.AnalysisResult `json:"Result,omitempty"`
	Error      string                 `json:"Error,omitempty"`
}

type AnalysisHandler struct {
	cfg        bootstrap.Config
	log        *zap.SugaredLogger
	analysisUC AnalysisUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewAnalysisHandler(cfg bootstrap.Config, log *zap.SugaredLogger, analysisUC AnalysisUseCase) *AnalysisHandler {
	return &AnalysisHandler{
		cfg:        cfg,
		log:        log,
		analysisUC: analysisUC,
	}
}

func (h *AnalysisHandler) Routes(r chi.Router) {
	r.Post("/analyze", h.HandleAnalyze)
	r.Get("/analysis/{id}", h.HandleGetAnalysis)
	r.Get("/analysis/{id}/pdf", h.HandleGetAnalysisPDF)
	r.Get("/engine", h.HandleEngineInfo)
	r.Get("/chess960", h.HandleListChess960)
	r.Get("/chess960/{id}", h.HandleGetChess960)
	r.Post("/chess960/{id}/analyze", h.HandleAnalyzeChess960)
	r.Get("/ws/analyze", h.HandleAnalyzeStream)
}

func (h *AnalysisHandler) HandleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body AnalyzeRequest
	if err := utils.DecodeJSONRequest(w, r, &body); err != nil {
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.analysisUC.Analyze(r.Context(), h.withDefaults(body))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

func (h *AnalysisHandler) HandleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := h.analysisUC.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

func (h *AnalysisHandler) HandleGetAnalysisPDF(w http.ResponseWriter, r *http.Request) {
	rec, err := h.analysisUC.GetAnalysis(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"analysis-"+rec.ID+".pdf\"")
	if err := report.WritePDF(w, rec); err != nil {
		h.log.Errorw("failed to render analysis pdf", "id", rec.ID, "error", err)
	}
}

func (h *AnalysisHandler) HandleEngineInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.analysisUC.EngineInfo(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, info)
}

func (h *AnalysisHandler) HandleListChess960(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, chess960.All())
}

func (h *AnalysisHandler) HandleGetChess960(w http.ResponseWriter, r *http.Request) {
	id, err := chess960ID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	pos, err := chess960.Position(id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, pos)
}

func (h *AnalysisHandler) HandleAnalyzeChess960(w http.ResponseWriter, r *http.Request) {
	id, err := chess960ID(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var body AnalyzeRequest
	if r.ContentLength != 0 {
		if err := utils.DecodeJSONRequest(w, r, &body); err != nil {
			httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	rec, err := h.analysisUC.AnalyzeChess960(r.Context(), id, h.withDefaults(body))
	if err != nil {
		h.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rec)
}

// HandleAnalyzeStream serves analyses over a websocket, one request at a time, until the client goes away.
func (h *AnalysisHandler) HandleAnalyzeStream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	for {
		var body AnalyzeRequest
		if err := conn.ReadJSON(&body); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warnw("websocket read failed", "error", err)
			}
			return
		}

		reply := StreamReply{RequestID: uuid.New().String()}
		rec, err := h.analysisUC.Analyze(r.Context(), h.withDefaults(body))
		if err != nil {
			reply.Error = err.Error()
		} else {
			reply.AnalysisID = rec.ID
			reply.Result = &rec.Result
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.log.Warnw("websocket write failed", "request_id", reply.RequestID, "error", err)
			return
		}
	}
}

func (h *AnalysisHandler) withDefaults(body AnalyzeRequest) domain.AnalysisRequest {
	req := domain.AnalysisRequest{
		Fen:              body.Fen,
		AnalysisDepth:    h.cfg.DefaultAnalysisDepth,
		MinAnalysisDepth: h.cfg.DefaultMinDepth,
		CpLossThreshold:  h.cfg.DefaultCpLossThreshold,
	}
	if body.AnalysisDepth != nil {
		req.AnalysisDepth = *body.AnalysisDepth
	}
	if body.MinAnalysisDepth != nil {
		req.MinAnalysisDepth = *body.MinAnalysisDepth
	} else if req.MinAnalysisDepth > req.AnalysisDepth {
		req.MinAnalysisDepth = req.AnalysisDepth
	}
	if body.CpLossThreshold != nil {
		req.CpLossThreshold = *body.CpLossThreshold
	}
	return req
}

func chess960ID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.Join(errs.ErrInvalidChess960ID, err)
	}
	return id, nil
}

func (h *AnalysisHandler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.log.Errorw("request failed", "status", status, "error", err)
	}
	httpresponse.WriteErrorWithStatus(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidRequest), errors.Is(err, errs.ErrInvalidChess960ID):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrAnalysisNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrVariantMismatch):
		return http.StatusConflict
	case errors.Is(err, errs.ErrMalformedNumericField), errors.Is(err, errs.ErrLookupMiss):
		return http.StatusBadGateway
	case errors.Is(err, errs.ErrProtocolDisconnect), errors.Is(err, errs.ErrSessionClosed):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
