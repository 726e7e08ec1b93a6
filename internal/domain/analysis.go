package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stockfish_harness/internal/errors"
)

// AnalysisRequest is the input of a single AnalyzeFen call.
type AnalysisRequest struct {
	Fen              string `json:"Fen"`
	AnalysisDepth    int    `json:"AnalysisDepth"`
	MinAnalysisDepth int    `json:"MinAnalysisDepth"`
	CpLossThreshold  int    `json:"CpLossThreshold"`
}

func (r AnalysisRequest) Validate() error {
	switch {
	case strings.TrimSpace(r.Fen) == "":
		return fmt.Errorf("%w: empty fen", errors.ErrInvalidRequest)
	case strings.ContainsAny(r.Fen, "\r\n"):
		return fmt.Errorf("%w: fen spans several lines", errors.ErrInvalidRequest)
	case r.AnalysisDepth <= 0:
		return fmt.Errorf("%w: analysis depth %d", errors.ErrInvalidRequest, r.AnalysisDepth)
	case r.MinAnalysisDepth < 0 || r.MinAnalysisDepth > r.AnalysisDepth:
		return fmt.Errorf("%w: min analysis depth %d outside [0, %d]", errors.ErrInvalidRequest, r.MinAnalysisDepth, r.AnalysisDepth)
	case r.CpLossThreshold < 0:
		return fmt.Errorf("%w: cp loss threshold %d", errors.ErrInvalidRequest, r.CpLossThreshold)
	}
	return nil
}

// @name Variation
type Variation struct {
	CpScore   int    `json:"CpScore" bson:"cp_score"`
	InfoDepth int    `json:"InfoDepth" bson:"info_depth"`
	MoveTxt   string `json:"MoveTxt" bson:"move_txt"`
}

// @name AnalysisResult
type AnalysisResult struct {
	StockfishVersion string      `json:"StockfishVersion" bson:"stockfish_version"`
	Fen              string      `json:"Fen" bson:"fen"`
	AnalysisDepth    int         `json:"AnalysisDepth" bson:"analysis_depth"`
	MinAnalysisDepth int         `json:"MinAnalysisDepth" bson:"min_analysis_depth"`
	CpLossThreshold  int         `json:"CpLossThreshold" bson:"cp_loss_threshold"`
	Variations       []Variation `json:"Variations" bson:"variations"`
}

// BestMove returns the strongest variation. Variations are kept sorted, so it is the first one.
func (r AnalysisResult) BestMove() (Variation, bool) {
	if len(r.Variations) == 0 {
		return Variation{}, false
	}
	return r.Variations[0], true
}

func EncodeResult(r AnalysisResult) ([]byte, error) {
	if r.Variations == nil {
		r.Variations = []Variation{}
	}
	return json.Marshal(r)
}

func DecodeResult(data []byte) (AnalysisResult, error) {
	var r AnalysisResult
	if err := json.Unmarshal(data, &r); err != nil {
		return AnalysisResult{}, fmt.Errorf("failed to decode analysis result: %w", err)
	}
	if r.Variations == nil {
		r.Variations = []Variation{}
	}
	return r, nil
}

// AnalysisRecord is the stored form of an analysis.
type AnalysisRecord struct {
	ID         string         `json:"ID" bson:"_id"`
	RequestKey string         `json:"RequestKey" bson:"request_key"`
	CreatedAt  time.Time      `json:"CreatedAt" bson:"created_at"`
	IsChess960 bool           `json:"IsChess960" bson:"is_chess960"`
	Chess960ID *int           `json:"Chess960ID,omitempty" bson:"chess960_id,omitempty"`
	Result     AnalysisResult `json:"Result" bson:"result"`
}

// @name EngineInfo
type EngineInfo struct {
	EngineVersion string `json:"EngineVersion"`
	IsChess960    bool   `json:"IsChess960"`
}
