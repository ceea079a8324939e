package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	convrepo "rental_leads_backend/internal/conversation/repository"
	"rental_leads_backend/platform/config"
	"rental_leads_backend/platform/logger"
)

const followupMessage = "¡Hola! Quedamos pendientes de algunos datos para tu cotización de plataforma. ¿Seguimos? 😊"

// Messenger sends outbound WhatsApp messages.
type Messenger interface {
	SendMessage(ctx context.Context, phone, message string) error
}

type Worker struct {
	server    *asynq.Server
	mux       *asynq.ServeMux
	convs     *convrepo.Repository
	messenger Messenger
	delay     time.Duration
	log       *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, pool *pgxpool.Pool, messenger Messenger, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL)
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:    server,
		mux:       mux,
		convs:     convrepo.New(pool),
		messenger: messenger,
		delay:     cfg.GetFollowupDelay(),
		log:       log,
	}

	mux.HandleFunc(TaskConversationFollowup, w.handleConversationFollowup)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleConversationFollowup nudges a conversation that went quiet mid
// qualification. The nudge is skipped when the lead replied after the task
// was scheduled or the conversation already reached a quote.
func (w *Worker) handleConversationFollowup(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseConversationFollowupPayload(task)
	if err != nil {
		return err
	}

	conversationID, err := uuid.Parse(payload.ConversationID)
	if err != nil {
		return err
	}
	companyID, err := uuid.Parse(payload.CompanyID)
	if err != nil {
		return err
	}

	conv, err := w.convs.GetByID(ctx, companyID, conversationID)
	if err != nil {
		return err
	}
	if conv == nil || conv.State.Terminal() {
		return nil
	}
	if time.Since(conv.LastActivityAt) < w.delay {
		// The lead replied after this task was scheduled.
		return nil
	}

	if w.messenger == nil || payload.Phone == "" {
		return nil
	}

	if err := w.messenger.SendMessage(ctx, payload.Phone, followupMessage); err != nil {
		return fmt.Errorf("send followup: %w", err)
	}

	w.log.Info("sent conversation followup", "conversationId", conversationID, "leadId", payload.LeadID)
	return nil
}
