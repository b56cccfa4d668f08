package trackbot

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	humanize "github.com/dustin/go-humanize"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/exercism/trackbot/internal/cfg"
)

type statusPayload struct {
	Version     string `json:"version"`
	Discordgo   string `json:"discordgo"`
	Go          string `json:"go"`
	Uptime      string `json:"uptime"`
	Guilds      int    `json:"guilds"`
	Tasks       int    `json:"tasks"`
	MemoryAlloc string `json:"memory_alloc"`
	MemorySys   string `json:"memory_sys"`
}

// startWebServer exposes a small read-only status endpoint.
func startWebServer(config *cfg.Config) {
	r := mux.NewRouter()
	r.HandleFunc("/", handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/status", handleStatus).Methods(http.MethodGet)

	err := http.ListenAndServe(":"+strconv.Itoa(config.Web.Port), r)
	if err != nil {
		log.Fatal("could not start webserver: ", err)
	}
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
	log.Debugln("Status request from " + r.RemoteAddr)

	stats := runtime.MemStats{}
	runtime.ReadMemStats(&stats)

	guilds := 0
	if discord != nil && discord.State != nil {
		guilds = len(discord.State.Guilds)
	}

	payload := statusPayload{
		Version:     version,
		Discordgo:   discordgo.VERSION,
		Go:          runtime.Version(),
		Uptime:      time.Since(startTime).Round(time.Second).String(),
		Guilds:      guilds,
		Tasks:       runtime.NumGoroutine(),
		MemoryAlloc: humanize.Bytes(stats.Alloc),
		MemorySys:   humanize.Bytes(stats.Sys),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Errorln("Could not encode status payload.", err)
	}
}
