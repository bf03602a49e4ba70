package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/attendsys/attendsysbackend/config"
	"github.com/attendsys/attendsysbackend/database"
	"github.com/attendsys/attendsysbackend/gallery"
	"github.com/attendsys/attendsysbackend/handlers"
	"github.com/attendsys/attendsysbackend/ledger"
	"github.com/attendsys/attendsysbackend/media"
	"github.com/attendsys/attendsysbackend/models"
	"github.com/attendsys/attendsysbackend/repository"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	storagePaths := []string{cfg.DataDirectory, cfg.ThumbnailsPath, filepath.Dir(cfg.AttendancePath)}
	for _, p := range storagePaths {
		log.Printf("Ensuring storage directory exists: %s", p)
		if err := os.MkdirAll(p, 0755); err != nil {
			log.Fatalf("FATAL: Failed to create storage directory %s: %v", p, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize database: %v", err)
	}
	if err := database.AutoMigrateModels(db); err != nil {
		log.Fatalf("FATAL: Failed to migrate database: %v", err)
	}
	studentRepo := repository.NewStudentRepository(db)

	detector := media.NewDNNFaceDetector(cfg.FaceDNNNetConfigPath, cfg.FaceDNNNetModelPath)
	recognizer := media.NewFaceRecognitionModel(cfg.FaceRecModelPath, cfg.FaceRecModelName)
	faceEngine := media.NewFaceEngine(detector, recognizer)
	defer faceEngine.Close()

	gazeEngine := media.NewGazeEngine(cfg.FaceCascadePath, cfg.EyeCascadePath)
	defer gazeEngine.Close()

	knownFaces, err := gallery.Bootstrap(cfg.DataDirectory, faceEngine)
	if err != nil {
		log.Fatalf("FATAL: Failed to bootstrap identity gallery: %v", err)
	}

	backfillRoster(studentRepo, cfg.DataDirectory)

	attendanceLedger := ledger.New(cfg.AttendancePath)
	comparator := media.NewEuclideanComparator(cfg.MatchTolerance)

	log.Printf("Identity images in: %s", cfg.DataDirectory)
	log.Printf("Attendance ledger at: %s", cfg.AttendancePath)
	log.Printf("Match tolerance: %g", comparator.Tolerance)

	r := chi.NewRouter()

	corsOptions := cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"}, //TODO: configurable
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	corsHandler := cors.New(corsOptions)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)

	frameHandler := &handlers.FrameHandler{
		Gallery:    knownFaces,
		Ledger:     attendanceLedger,
		Faces:      faceEngine,
		Gaze:       gazeEngine,
		Comparator: comparator,
	}
	registerHandler := &handlers.RegisterHandler{
		Cfg:         cfg,
		Gallery:     knownFaces,
		Faces:       faceEngine,
		StudentRepo: studentRepo,
	}
	attendanceHandler := &handlers.AttendanceHandler{Ledger: attendanceLedger}
	studentHandler := &handlers.StudentHandler{StudentRepo: studentRepo}
	framePreviewHandler := &handlers.FramePreviewHandler{
		Gallery:    knownFaces,
		Faces:      faceEngine,
		Comparator: comparator,
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/process-frame", frameHandler.ProcessFrame)
		r.Post("/register", registerHandler.RegisterFace)
		r.Get("/get-attendance", attendanceHandler.GetAttendance)
		r.Get("/download-attendance", attendanceHandler.DownloadAttendance)
		r.Get("/students", studentHandler.ListStudents)

		r.Get("/thumbnails/*", handlers.AssetServer("/api/thumbnails/", cfg.ThumbnailsPath))
	})

	r.Route("/debug", func(r chi.Router) {
		// POST /debug/frame_with_faces with the same body as process-frame
		r.Post("/frame_with_faces", framePreviewHandler.ServeFrameWithFaces)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	serverAddr := ":" + port
	fmt.Printf("Server starting on http://localhost:%s\n", port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// backfillRoster inserts roster rows for identity images that predate
// the roster table, so GET /api/students reflects the bootstrap
// directory after an upgrade or a by-hand image drop.
func backfillRoster(repo repository.StudentRepositoryInterface, dataDir string) {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		log.Printf("Warning: roster backfill skipped, cannot read %s: %v", dataDir, err)
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !gallery.IsRasterImage(entry.Name()) {
			continue
		}
		imagePath := filepath.Join(dataDir, entry.Name())
		exists, err := repo.ExistsByImagePath(imagePath)
		if err != nil {
			log.Printf("Warning: roster backfill check failed for %s: %v", imagePath, err)
			continue
		}
		if exists {
			continue
		}
		name := entry.Name()[:len(entry.Name())-len(filepath.Ext(entry.Name()))]
		student := models.Student{Name: name, ImagePath: imagePath}
		if err := repo.Create(&student); err != nil {
			log.Printf("Warning: roster backfill insert failed for %s: %v", name, err)
		}
	}
}
