package main

import (
	"encoding/json"
	"flag"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"gotr/internal/relay"
)

type memoryQueue struct {
	mu   sync.Mutex
	byTo map[string][]relay.Frame
}

func newMemoryQueue() *memoryQueue { return &memoryQueue{byTo: make(map[string][]relay.Frame)} }

func (q *memoryQueue) enqueue(f relay.Frame) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.byTo[f.To] = append(q.byTo[f.To], f)
}

func (q *memoryQueue) peek(user string, limit int) []relay.Frame {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending := q.byTo[user]
	if limit <= 0 || limit > len(pending) {
		limit = len(pending)
	}
	out := make([]relay.Frame, limit)
	copy(out, pending[:limit])
	return out
}

func (q *memoryQueue) ack(user string, count int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	pending := q.byTo[user]
	if count >= len(pending) {
		delete(q.byTo, user)
		return
	}
	q.byTo[user] = pending[count:]
}

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	flag.Parse()

	q := newMemoryQueue()
	mux := http.NewServeMux()

	mux.HandleFunc("/msg/", func(w http.ResponseWriter, r *http.Request) {
		user := r.URL.Path[len("/msg/"):]
		if len(user) > 4 && user[len(user)-4:] == "/ack" {
			handleAck(w, r, q, user[:len(user)-4])
			return
		}
		switch r.Method {
		case http.MethodPost:
			handleSend(w, r, q, user)
		case http.MethodGet:
			handleFetch(w, r, q, user)
		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	})

	srv := &http.Server{
		Addr:         *addr,
		Handler:      logged(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	log.Printf("otrrelay listening on %s", *addr)
	log.Fatal(srv.ListenAndServe())
}

func handleSend(w http.ResponseWriter, r *http.Request, q *memoryQueue, to string) {
	defer r.Body.Close()
	var f relay.Frame
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.To = to
	q.enqueue(f)
	w.WriteHeader(http.StatusOK)
}

func handleFetch(w http.ResponseWriter, r *http.Request, q *memoryQueue, user string) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}
	_ = json.NewEncoder(w).Encode(q.peek(user, limit))
}

func handleAck(w http.ResponseWriter, r *http.Request, q *memoryQueue, user string) {
	defer r.Body.Close()
	var body struct{ Count int `json:"count"` }
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	q.ack(user, body.Count)
	w.WriteHeader(http.StatusOK)
}

func logged(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		h.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
