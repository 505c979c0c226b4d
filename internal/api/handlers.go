package api

import (
	"encoding/json"
	"net/http"
)

type queryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"top_k"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status": "ok",
		"nodes":  s.svc.NodeCount(),
		"chunks": s.svc.ChunkCount(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.TopKChunks
	}

	hits, err := s.svc.SearchChunks(r.Context(), req.Query, topK)
	if err != nil {
		s.log.Error("chunk search failed", "error", err)
		jsonError(w, "search failed", http.StatusInternalServerError)
		return
	}

	results := make([]map[string]any, len(hits))
	for i, h := range hits {
		results[i] = map[string]any{
			"text":             h.Meta.Text,
			"source_file":      h.Meta.SourceFile,
			"chunk_index":      h.Meta.ChunkIndex,
			"relevant_heading": h.Meta.RelevantHeading,
			"score":            h.Score,
			"rank":             h.Rank,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.TopKSections
	}

	out, err := s.svc.Suggest(r.Context(), req.Query, topK)
	if err != nil {
		s.log.Error("suggest failed", "error", err)
		jsonError(w, "suggest failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleRankPlans(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeQuery(w, r)
	if !ok {
		return
	}
	topK := req.TopK
	if topK <= 0 {
		topK = s.cfg.TopKPlans
	}

	scores, err := s.svc.RankPlans(r.Context(), req.Query, topK)
	if err != nil {
		s.log.Error("plan ranking failed", "error", err)
		jsonError(w, "plan ranking failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"plans": scores})
}

func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request) (queryRequest, bool) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body", http.StatusBadRequest)
		return req, false
	}
	if req.Query == "" {
		jsonError(w, "query is required", http.StatusBadRequest)
		return req, false
	}
	return req, true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
