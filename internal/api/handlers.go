package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"duskcache/internal/cache"
)

// handlers holds the one dependency every route needs. A struct rather
// than free functions so cache stays out of each handler's argument list.
type handlers struct {
	cache *cache.Cache
}

func (h *handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

type setRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
	PX    int64  `json:"px,omitempty"`
}

func (h *handlers) handleSet(w http.ResponseWriter, r *http.Request) {
	var req setRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Key == "" {
		writeJSONError(w, http.StatusBadRequest, "key is required")
		return
	}
	if err := h.cache.Set(req.Key, req.Value, req.PX); err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}

func (h *handlers) handleGet(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSONError(w, http.StatusBadRequest, "key is required")
		return
	}
	value, found, err := h.cache.Get(key)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"value": value, "found": found})
}

type delRequest struct {
	Key string `json:"key"`
}

func (h *handlers) handleDel(w http.ResponseWriter, r *http.Request) {
	var req delRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	deleted := h.cache.Del(req.Key)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"deleted": deleted})
}

func (h *handlers) handleExists(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSONError(w, http.StatusBadRequest, "key is required")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"exists": h.cache.Exists(key)})
}

func (h *handlers) handleTTL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeJSONError(w, http.StatusBadRequest, "key is required")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"ttl": h.cache.TTL(key)})
}

type zaddRequest struct {
	Key    string  `json:"key"`
	Score  float64 `json:"score"`
	Member string  `json:"member"`
}

func (h *handlers) handleZAdd(w http.ResponseWriter, r *http.Request) {
	var req zaddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.cache.ZAdd(req.Key, req.Score, req.Member); err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}

type zmemberRequest struct {
	Key    string `json:"key"`
	Member string `json:"member"`
}

func (h *handlers) handleZRem(w http.ResponseWriter, r *http.Request) {
	var req zmemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	removed, err := h.cache.ZRem(req.Key, req.Member)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"removed": removed})
}

func (h *handlers) handleZScore(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	member := r.URL.Query().Get("member")
	score, ok, err := h.cache.ZScore(key, member)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"score": score, "found": ok})
}

func (h *handlers) handleZRank(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	member := r.URL.Query().Get("member")
	rank, ok, err := h.cache.ZRank(key, member)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"rank": rank, "found": ok})
}

func (h *handlers) handleZCard(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	card, err := h.cache.ZCard(key)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"card": card})
}

type zincrbyRequest struct {
	Key    string  `json:"key"`
	Delta  float64 `json:"delta"`
	Member string  `json:"member"`
}

func (h *handlers) handleZIncrBy(w http.ResponseWriter, r *http.Request) {
	var req zincrbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	score, err := h.cache.ZIncrBy(req.Key, req.Delta, req.Member)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"score": score})
}

func (h *handlers) handleZRangeByScore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	key := q.Get("key")
	min, err := strconv.ParseFloat(q.Get("min"), 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "min must be a number")
		return
	}
	max, err := strconv.ParseFloat(q.Get("max"), 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "max must be a number")
		return
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
	}

	members, zerr := h.cache.ZRangeByScore(key, min, max, limit)
	if zerr != nil {
		writeTypedError(w, zerr)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"members": members})
}

func (h *handlers) handleSAdd(w http.ResponseWriter, r *http.Request) {
	var req zmemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	added, err := h.cache.SAdd(req.Key, req.Member)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"added": added})
}

func (h *handlers) handleSRem(w http.ResponseWriter, r *http.Request) {
	var req zmemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	removed, err := h.cache.SRem(req.Key, req.Member)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"removed": removed})
}

func (h *handlers) handleSMembers(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	members, err := h.cache.SMembers(key)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"members": members})
}

func (h *handlers) handleSCard(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	card, err := h.cache.SCard(key)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"card": card})
}

func (h *handlers) handleSIsMember(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	member := r.URL.Query().Get("member")
	isMember, err := h.cache.SIsMember(key, member)
	if err != nil {
		writeTypedError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"isMember": isMember})
}

func (h *handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	stats := h.cache.GetStats()
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}

// writeTypedError maps coordinator errors to HTTP status codes.
// ErrWrongType is the only one an external caller is expected to see and
// recover from, so it alone gets a 400; anything else is unexpected.
func writeTypedError(w http.ResponseWriter, err error) {
	if err == cache.ErrWrongType {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSONError(w, http.StatusInternalServerError, err.Error())
}
