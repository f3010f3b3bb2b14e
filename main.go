package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/example/learnengine/internal/curriculum"
	"github.com/example/learnengine/internal/database"
	"github.com/example/learnengine/internal/engine"
	"github.com/example/learnengine/internal/scheduler"
)

// logNotifier surfaces review reminders through the application log. A
// delivery channel (mail, push) plugs in by replacing this type.
type logNotifier struct {
	log *zap.Logger
}

func (n *logNotifier) SendReviewReminder(learnerID string, dueCount int) error {
	n.log.Info("reviews due",
		zap.String("learner_id", learnerID),
		zap.Int("due_count", dueCount))
	return nil
}

func main() {
	// A missing .env is fine; the environment may be set externally.
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Connect(); err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	cur, err := loadCurriculum()
	if err != nil {
		logger.Fatal("failed to load curriculum", zap.Error(err))
	}
	logger.Info("curriculum loaded",
		zap.String("name", cur.Name),
		zap.Int("concepts", len(cur.Concepts)))

	store := database.NewProfileRepository(logger)
	registry, err := engine.NewRegistry(cur, store, engine.Config{
		Policy: os.Getenv("BANDIT_POLICY"),
	}, logger)
	if err != nil {
		logger.Fatal("failed to create engine registry", zap.Error(err))
	}

	// Warm the registry so stored learners take part in reminder sweeps
	// and peer recommendations from the start.
	ids, err := store.LearnerIDs(ctx)
	if err != nil {
		logger.Fatal("failed to list learners", zap.Error(err))
	}
	for _, id := range ids {
		if _, err := registry.Engine(ctx, id); err != nil {
			logger.Error("failed to load learner", zap.String("learner_id", id), zap.Error(err))
		}
	}
	logger.Info("learners loaded", zap.Int("count", len(ids)))

	sched := scheduler.New(registry, &logNotifier{log: logger}, logger)
	sched.Start()
	defer sched.Stop()

	logger.Info("learning engine started, press Ctrl+C to stop")

	sig := <-sigChan
	logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	cancel()
}

func newLogger() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func loadCurriculum() (*curriculum.Curriculum, error) {
	if path := os.Getenv("CURRICULUM_FILE"); path != "" {
		return curriculum.LoadFile(path)
	}
	return curriculum.Default(), nil
}
