package worker

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/tasks"
)

// Server wraps the asynq worker that processes room background tasks:
// contribution increments, ended-room state cleanup and the periodic
// sweep for rooms whose cleanup task was lost.
type Server struct {
	server     *asynq.Server
	log        *logrus.Entry
	memberRepo repository.MemberRepository
	roomRepo   repository.RoomRepository
	stateRepo  repository.StateRepository
}

// NewServer creates a worker Server.
func NewServer(
	redisOpt asynq.RedisClientOpt,
	roomRepo repository.RoomRepository,
	memberRepo repository.MemberRepository,
	stateRepo repository.StateRepository,
	logger *logrus.Logger,
) *Server {
	if roomRepo == nil || memberRepo == nil || stateRepo == nil {
		panic("repositories cannot be nil for worker Server")
	}
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				taskID := ""
				if rw := task.ResultWriter(); rw != nil {
					taskID = rw.TaskID()
				}
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_id":   taskID,
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	return &Server{
		server:     server,
		log:        logEntry,
		memberRepo: memberRepo,
		roomRepo:   roomRepo,
		stateRepo:  stateRepo,
	}
}

// Start runs the worker server. Call it from its own goroutine.
func (ws *Server) Start() {
	mux := asynq.NewServeMux()

	contributionHandler := NewContributionHandler(ws.memberRepo)
	mux.HandleFunc(tasks.TypeContributionIncrement, contributionHandler.ProcessTask)

	cleanupHandler := NewCleanupHandler(ws.roomRepo, ws.stateRepo)
	mux.HandleFunc(tasks.TypeRoomStateCleanup, cleanupHandler.ProcessCleanup)
	mux.HandleFunc(tasks.TypeRoomStateSweep, cleanupHandler.ProcessSweep)

	ws.log.Info("Worker server starting...")
	if err := ws.server.Run(mux); err != nil {
		if !errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Fatalf("Could not run worker server: %v", err)
		} else {
			ws.log.Info("Worker server stopped.")
		}
	}
}

// Shutdown gracefully stops the worker server.
func (ws *Server) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
