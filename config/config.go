package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
)

const (
	DefaultDataSubDir       = "data"
	DefaultThumbnailsSubDir = "thumbnails"
)

const (
	defaultThumbnailMaxSize = 300
	defaultMatchTolerance   = 0.6
)

type Config struct {
	// identity image directory (one reference image per registered identity)
	DataDirectory string

	// sidecar roster database path
	DatabasePath string

	// attendance ledger workbook path
	AttendancePath string

	// generated identity thumbnails
	ThumbnailsPath   string
	ThumbnailMaxSize int

	// face detection model paths (DNN)
	FaceDNNNetConfigPath string
	FaceDNNNetModelPath  string

	// face embedding model (ArcFace, FaceNet, etc.)
	FaceRecModelPath string
	FaceRecModelName string

	// gaze classification cascades
	FaceCascadePath string
	EyeCascadePath  string

	// embedding distance below which two faces count as the same person
	MatchTolerance float64
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func getEnvFloatOrDefault(envVar string, defaultVal float64) float64 {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(valStr, 64)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %g. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dataDir := getEnvOrDefault("DATA_DIRECTORY", DefaultDataSubDir)
	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for data directory '%s': %w", dataDir, err)
	}

	dbPath := getEnvOrDefault("DATABASE_PATH", "students.db")
	attendancePath := getEnvOrDefault("ATTENDANCE_PATH", "attendance.xlsx")

	thumbDir := getEnvOrDefault("THUMBNAILS_PATH", filepath.Join(absDataDir, DefaultThumbnailsSubDir))
	absThumbDir, err := filepath.Abs(thumbDir)
	if err != nil {
		return Config{}, fmt.Errorf("failed to get absolute path for thumbnails directory '%s': %w", thumbDir, err)
	}

	thumbMaxSize := getEnvIntOrDefault("THUMBNAIL_MAX_SIZE", defaultThumbnailMaxSize)

	faceDNNConfig := getEnvOrDefault("FACE_DNN_CONFIG_PATH", "./models/deploy.prototxt.txt")
	faceDNNModel := getEnvOrDefault("FACE_DNN_MODEL_PATH", "./models/res10_300x300_ssd_iter_140000_fp16.caffemodel")

	faceRecModel := getEnvOrDefault("FACE_REC_MODEL_PATH", "./models/arcface.onnx")
	faceRecName := getEnvOrDefault("FACE_REC_MODEL_NAME", "arcface")

	faceCascade := getEnvOrDefault("FACE_CASCADE_PATH", "./models/haarcascade_frontalface_default.xml")
	eyeCascade := getEnvOrDefault("EYE_CASCADE_PATH", "./models/haarcascade_eye.xml")

	tolerance := getEnvFloatOrDefault("MATCH_TOLERANCE", defaultMatchTolerance)

	cfg := Config{
		DataDirectory:        absDataDir,
		DatabasePath:         dbPath,
		AttendancePath:       attendancePath,
		ThumbnailsPath:       absThumbDir,
		ThumbnailMaxSize:     thumbMaxSize,
		FaceDNNNetConfigPath: faceDNNConfig,
		FaceDNNNetModelPath:  faceDNNModel,
		FaceRecModelPath:     faceRecModel,
		FaceRecModelName:     faceRecName,
		FaceCascadePath:      faceCascade,
		EyeCascadePath:       eyeCascade,
		MatchTolerance:       tolerance,
	}

	return cfg, nil
}
