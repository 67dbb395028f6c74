package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/hyperjiang/wheeltimer"
	log "github.com/sirupsen/logrus"
	"go.uber.org/atomic"
)

// Server exposes a HashedWheelTimer over HTTP. Each submitted timeout logs
// its message when it fires; a repeating one re-arms itself with the same
// delay and keeps its id. An id is forgotten once its timeout has fired for
// the last time, been cancelled, or been returned by Shutdown.
type Server struct {
	timer *wheeltimer.HashedWheelTimer

	mu      sync.RWMutex
	entries map[string]*entry
}

type entry struct {
	srv     *Server
	id      string
	message string
	delay   time.Duration
	repeat  bool

	timeout atomic.Pointer[wheeltimer.Timeout]
	fired   atomic.Int64
	stopped atomic.Bool
}

// Run implements wheeltimer.TimerTask.
func (e *entry) Run(t *wheeltimer.Timeout) {
	n := e.fired.Inc()
	log.Infof("timeout %s fired (%d): %s", e.id, n, e.message)
	if !e.repeat || e.stopped.Load() {
		e.srv.remove(e.id)
		return
	}

	next, err := t.Timer().Submit(e, e.delay)
	if err != nil {
		log.Errorf("timeout %s: re-arm failed: %v", e.id, err)
		e.srv.remove(e.id)
		return
	}
	e.timeout.Store(next)
	if e.stopped.Load() {
		// cancelled while re-arming
		next.Cancel()
		e.srv.remove(e.id)
	}
}

// cancel stops the entry. A repeating entry caught while its task runs
// counts as cancelled: it will not be re-armed again.
func (e *entry) cancel() bool {
	stopped := e.stopped.CompareAndSwap(false, true)
	if e.timeout.Load().Cancel() {
		e.srv.remove(e.id)
		return true
	}
	return stopped && e.repeat
}

type submitReq struct {
	Delay   string `json:"delay" binding:"required"`
	Message string `json:"message"`
	Repeat  bool   `json:"repeat"`
}

type timeoutView struct {
	ID       string `json:"id"`
	Deadline int64  `json:"deadline"`
	State    string `json:"state"`
	Repeat   bool   `json:"repeat"`
	Fired    int64  `json:"fired"`
}

func New(timer *wheeltimer.HashedWheelTimer) *Server {
	return &Server{
		timer:   timer,
		entries: make(map[string]*entry),
	}
}

// Router returns the gin engine serving the API.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	timeouts := router.Group("/timeouts")
	{
		timeouts.POST("", s.submit)
		timeouts.GET("/:id", s.get)
		timeouts.DELETE("/:id", s.cancel)
	}
	router.GET("/stats", s.stats)
	router.POST("/shutdown", s.shutdown)
	return router
}

func (s *Server) submit(c *gin.Context) {
	var req submitReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	delay, err := time.ParseDuration(req.Delay)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e := &entry{
		srv:     s,
		id:      uuid.Must(uuid.NewV4()).String(),
		message: req.Message,
		delay:   delay,
		repeat:  req.Repeat,
	}

	// registered first so a timeout that fires at once can remove itself
	s.mu.Lock()
	s.entries[e.id] = e
	s.mu.Unlock()

	t, err := s.timer.Submit(e, delay)
	if err != nil {
		s.remove(e.id)
		if errors.Is(err, wheeltimer.ErrCapacityExceeded) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
			return
		}
		log.Errorf("submit timeout: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	// a short repeating timeout may already have re-armed itself
	e.timeout.CompareAndSwap(nil, t)

	log.Debugf("timeout %s submitted, delay %v, deadline tick %d", e.id, delay, t.Deadline())
	c.JSON(http.StatusCreated, e.view())
}

func (s *Server) get(c *gin.Context) {
	e, ok := s.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "timeout not found"})
		return
	}
	c.JSON(http.StatusOK, e.view())
}

func (s *Server) cancel(c *gin.Context) {
	e, ok := s.lookup(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "timeout not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cancelled": e.cancel()})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"pending": s.timer.Pending(),
		"tick":    s.timer.Tick(),
		"running": s.timer.IsRunning(),
		"entries": s.len(),
	})
}

func (s *Server) shutdown(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"unfired": s.Shutdown()})
}

// Shutdown stops the timer and returns the ids of the timeouts that never
// fired.
func (s *Server) Shutdown() []string {
	unfired := s.timer.Shutdown()

	s.mu.Lock()
	defer s.mu.Unlock()

	byTimeout := make(map[*wheeltimer.Timeout]string, len(s.entries))
	for id, e := range s.entries {
		byTimeout[e.timeout.Load()] = id
	}
	ids := make([]string, 0, len(unfired))
	for _, t := range unfired {
		if id, ok := byTimeout[t]; ok {
			ids = append(ids, id)
			delete(s.entries, id)
		}
	}
	return ids
}

func (s *Server) remove(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

func (s *Server) len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Server) lookup(id string) (*entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	return e, ok
}

func (e *entry) view() timeoutView {
	t := e.timeout.Load()
	return timeoutView{
		ID:       e.id,
		Deadline: t.Deadline(),
		State:    t.State().String(),
		Repeat:   e.repeat,
		Fired:    e.fired.Load(),
	}
}
