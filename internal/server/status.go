package server

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

type statusResponse struct {
	OK         bool   `json:"ok"`
	StartedAt  string `json:"started_at"`
	UptimeSec  int    `json:"uptime_sec"`
	Provider   string `json:"provider,omitempty"`
	Goroutines int    `json:"goroutines"`
	RSSBytes   uint64 `json:"rss_bytes,omitempty"`
	GoVersion  string `json:"go_version"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		OK:         true,
		StartedAt:  s.startedAt.Format(time.RFC3339),
		UptimeSec:  int(time.Since(s.startedAt).Seconds()),
		Provider:   s.provider,
		Goroutines: runtime.NumGoroutine(),
		GoVersion:  runtime.Version(),
	}

	if proc, err := process.NewProcessWithContext(r.Context(), int32(os.Getpid())); err == nil {
		if mem, err := proc.MemoryInfoWithContext(r.Context()); err == nil && mem != nil {
			resp.RSSBytes = mem.RSS
		} else if err != nil {
			s.log.Debug("[HTTP] Reading process memory failed: %v", err)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}
