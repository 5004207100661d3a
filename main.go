package main

import (
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evacuation-route-server/config"
	"evacuation-route-server/network"
	"evacuation-route-server/sensors"
	"evacuation-route-server/store"
)

func newRouter(s *server, cfg config.Config) *gin.Engine {
	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	if cfg.AllowAllOrigins() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	r.Use(cors.New(corsConfig))

	r.GET("/health", s.handleHealth)
	r.GET("/graph", s.handleGraph)
	r.POST("/simulate", s.handleSimulate)
	r.POST("/nearest", s.handleNearest)

	r.POST("/sensors", s.handleAddReading)
	r.GET("/sensors", s.handleSensors)
	r.GET("/sensors/:channel", s.handleSensorChannel)

	r.GET("/runs", s.handleListRuns)
	r.GET("/runs/:id", s.handleGetRun)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func loadSensors(cfg config.Config) *sensors.Store {
	st := sensors.NewStore(cfg.SensorCapacity)
	if cfg.SensorCSV == "" {
		return st
	}

	f, err := os.Open(cfg.SensorCSV)
	if err != nil {
		log.Printf("Warning: failed to open sensor history %s: %v", cfg.SensorCSV, err)
		return st
	}
	defer f.Close()

	readings, err := sensors.LoadCSV(f)
	if err != nil {
		log.Printf("Warning: failed to load sensor history: %v", err)
		return st
	}
	st.Seed(readings)
	log.Printf("Seeded sensor history with %d readings", len(readings))
	return st
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	log.Println("Loading base network...")
	base, err := network.LoadOnce(cfg.GraphPath)
	if err != nil {
		log.Fatalf("Failed to load required network data: %v", err)
	}
	log.Printf("Base network ready. Nodes: %d, Edges: %d", len(base.Nodes), base.EdgeCount())

	s := &server{
		base:         base,
		sensors:      loadSensors(cfg),
		targetPrefix: cfg.TargetPrefix,
	}

	if cfg.DBPath != "" {
		runs, err := store.NewStore(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to open run history at %s: %v", cfg.DBPath, err)
		}
		defer runs.Close()
		s.runs = runs
		log.Printf("Recording runs to %s", cfg.DBPath)
	} else {
		log.Println("DB_PATH not set, run history disabled")
	}

	r := newRouter(s, cfg)

	log.Printf("Evacuation Route Server starting on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
