package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/katalvlaran/molnet/internal/store"
	"github.com/katalvlaran/molnet/matrix"
	"github.com/katalvlaran/molnet/network"
	"github.com/katalvlaran/molnet/topk"
	"go.uber.org/zap"
)

// networkRequest is the body of POST /v1/networks. Unset parameters fall back
// to the server configuration.
type networkRequest struct {
	Matrix     [][]float64 `json:"matrix" validate:"required"`
	Radii      []float64   `json:"radii" validate:"omitempty,dive,gte=0"`
	TopK       *int        `json:"top_k" validate:"omitempty,gte=0"`
	MinScore   *float64    `json:"min_score" validate:"omitempty,gte=-1,lte=1"`
	Iterations *int        `json:"iterations" validate:"omitempty,gt=0,lte=100000"`
	Save       bool        `json:"save"`
}

type networkResponse struct {
	ID      string          `json:"id,omitempty"`
	Network *network.Result `json:"network"`
}

type neighborsRequest struct {
	Matrix   [][]float64 `json:"matrix" validate:"required"`
	Row      int         `json:"row" validate:"gte=0"`
	TopK     *int        `json:"top_k" validate:"omitempty,gte=0"`
	MinScore *float64    `json:"min_score" validate:"omitempty,gte=-1,lte=1"`
}

// decode reads a JSON body into dst and validates it. It writes the error
// response itself and reports whether the handler should go on.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxRequestSize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("field %s failed %q", verrs[0].Namespace(), verrs[0].Tag()))
			return false
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

func (s *Server) createNetwork(w http.ResponseWriter, r *http.Request) {
	var req networkRequest
	if !s.decode(w, r, &req) {
		return
	}
	if len(req.Matrix) > s.cfg.Server.MaxNodes {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("matrix has %d rows, limit is %d", len(req.Matrix), s.cfg.Server.MaxNodes))
		return
	}
	m, err := matrix.NewDenseFrom(req.Matrix)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := store.Params{
		TopK:          s.cfg.Network.TopK,
		MinScore:      s.cfg.Network.MinScore,
		Iterations:    s.cfg.Network.Iterations,
		Seed:          s.cfg.Network.Seed,
		DefaultRadius: s.cfg.Network.DefaultRadius,
	}
	if req.TopK != nil {
		params.TopK = *req.TopK
	}
	if req.MinScore != nil {
		params.MinScore = *req.MinScore
	}
	if req.Iterations != nil {
		params.Iterations = *req.Iterations
	}

	res, err := network.Generate(r.Context(), m, req.Radii,
		network.WithTopK(params.TopK),
		network.WithMinScore(params.MinScore),
		network.WithIterations(params.Iterations),
		network.WithSeed(params.Seed),
		network.WithDefaultRadius(params.DefaultRadius),
		network.WithWorkers(s.cfg.Network.Workers),
		network.WithLogger(s.logger),
		network.WithMetrics(s.metrics),
	)
	switch {
	case network.IsCanceled(err):
		writeError(w, http.StatusServiceUnavailable, "generation canceled")
		return
	case errors.Is(err, network.ErrInvalidInput):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		s.logger.Error("generate network", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "generation failed")
		return
	}

	resp := networkResponse{Network: res}
	status := http.StatusOK
	if req.Save {
		if s.runs == nil {
			writeError(w, http.StatusNotImplemented, "persistence is disabled")
			return
		}
		if resp.ID, err = s.runs.Save(r.Context(), params, res); err != nil {
			s.logger.Error("save run", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "saving run failed")
			return
		}
		w.Header().Set("Location", "/v1/networks/"+resp.ID)
		status = http.StatusCreated
	}

	writeJSON(w, status, resp)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotImplemented, "persistence is disabled")
		return
	}
	run, err := s.runs.Get(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("get run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "loading run failed")
		return
	}

	writeJSON(w, http.StatusOK, run)
}

func (s *Server) deleteRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotImplemented, "persistence is disabled")
		return
	}
	err := s.runs.Delete(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.logger.Error("delete run", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "deleting run failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		writeError(w, http.StatusNotImplemented, "persistence is disabled")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	runs, err := s.runs.List(r.Context(), limit)
	if err != nil {
		s.logger.Error("list runs", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "listing runs failed")
		return
	}

	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) neighbors(w http.ResponseWriter, r *http.Request) {
	var req neighborsRequest
	if !s.decode(w, r, &req) {
		return
	}
	m, err := matrix.NewDenseFrom(req.Matrix)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts := []topk.Option{
		topk.WithK(s.cfg.Network.TopK),
		topk.WithMinScore(s.cfg.Network.MinScore),
	}
	if req.TopK != nil {
		opts = append(opts, topk.WithK(*req.TopK))
	}
	if req.MinScore != nil {
		opts = append(opts, topk.WithMinScore(*req.MinScore))
	}

	cands, err := topk.Neighbors(m, req.Row, opts...)
	switch {
	case errors.Is(err, topk.ErrInvalidInput), errors.Is(err, topk.ErrRowOutOfRange):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out := make([]neighbor, len(cands))
	for i, c := range cands {
		out[i] = neighbor{Index: c.Index, Score: c.Score}
	}
	writeJSON(w, http.StatusOK, out)
}

type neighbor struct {
	Index int     `json:"index"`
	Score float64 `json:"score"`
}
