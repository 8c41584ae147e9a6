// Package jobs drives a generation request from confirmed wizard session
// to terminal outcome: debit the ledger, submit to the provider, poll the
// task in the background and settle the balance exactly once.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"

	"video-gen-bot/internal/kie"
	"video-gen-bot/internal/models"
)

// ErrInsufficientBalance is returned synchronously by SubmitAndTrack when
// the re-read balance cannot cover the request. No tokens move.
var ErrInsufficientBalance = errors.New("insufficient balance for generation")

const (
	defaultPollInterval = 8 * time.Second

	// Sora pro jobs can take ~45 minutes; 360 polls at 8s give them 48.
	// Everything else gets 12 minutes.
	soraProMaxAttempts = 360
	defaultMaxAttempts = 90
)

// Ledger is the slice of the balance store the manager needs. Debit and
// credit are atomic per call; the manager compensates at the call site.
type Ledger interface {
	GetUser(userID int64) (*models.User, error)
	AddTokens(userID int64, delta int) error
	DebitTokens(userID int64, amount int) error
}

// Notifier delivers outcomes to the user. Delivery is best effort and must
// never fail the job.
type Notifier interface {
	SendText(userID int64, text string)
	SendVideo(userID int64, videoURL, caption string)
	SendMenu(userID int64)
}

type SoraGateway interface {
	CreateTask(ctx context.Context, gen *models.GenerationRequest) (string, error)
	TaskStatus(ctx context.Context, taskID string) (*kie.TaskStatus, error)
}

type VeoGateway interface {
	Generate(ctx context.Context, gen *models.GenerationRequest) (*kie.SubmitResult, error)
	TaskStatus(ctx context.Context, taskID string) (*kie.TaskStatus, error)
}

type statusFunc func(ctx context.Context, taskID string) (*kie.TaskStatus, error)

type Manager struct {
	ledger       Ledger
	notifier     Notifier
	sora         SoraGateway
	veo          VeoGateway
	localizer    *i18n.Localizer
	registry     *Registry
	pollInterval time.Duration
	wg           sync.WaitGroup
}

func NewManager(ledger Ledger, notifier Notifier, sora SoraGateway, veo VeoGateway, localizer *i18n.Localizer) *Manager {
	return &Manager{
		ledger:       ledger,
		notifier:     notifier,
		sora:         sora,
		veo:          veo,
		localizer:    localizer,
		registry:     NewRegistry(),
		pollInterval: defaultPollInterval,
	}
}

func (m *Manager) Registry() *Registry {
	return m.registry
}

// SetNotifier binds the outcome sink after construction. The bot delivers
// the manager's outcomes and also submits its requests, so one of the two
// has to be attached late.
func (m *Manager) SetNotifier(n Notifier) {
	m.notifier = n
}

// Wait blocks until every tracked job has reached a terminal outcome.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// SubmitAndTrack debits the user, submits the request to its provider and
// starts background polling. All outcomes after a successful debit are
// delivered through the Notifier; a failed submission credits the cost
// back before returning.
func (m *Manager) SubmitAndTrack(ctx context.Context, gen *models.GenerationRequest) error {
	user, err := m.ledger.GetUser(gen.UserID)
	if err != nil {
		return fmt.Errorf("read balance for user %d: %w", gen.UserID, err)
	}

	balance := 0
	if user != nil {
		balance = user.Tokens
	}
	if balance < gen.Cost {
		m.notifier.SendText(gen.UserID, m.text("job_insufficient_balance", map[string]string{
			"Cost":    strconv.Itoa(gen.Cost),
			"Balance": strconv.Itoa(balance),
		}))
		return ErrInsufficientBalance
	}

	// Debit before the network call: at most one unpaid job per confirm,
	// at the price of a compensating credit on every failure path.
	if err := m.ledger.DebitTokens(gen.UserID, gen.Cost); err != nil {
		m.notifier.SendText(gen.UserID, m.text("job_insufficient_balance", map[string]string{
			"Cost":    strconv.Itoa(gen.Cost),
			"Balance": strconv.Itoa(balance),
		}))
		return fmt.Errorf("debit %d tokens from user %d: %w", gen.Cost, gen.UserID, err)
	}

	m.notifier.SendText(gen.UserID, m.text("job_started", map[string]string{
		"Cost": strconv.Itoa(gen.Cost),
	}))

	switch gen.Engine {
	case models.EngineVeo:
		return m.submitVeo(ctx, gen)
	default:
		return m.submitSora(ctx, gen)
	}
}

func (m *Manager) submitSora(ctx context.Context, gen *models.GenerationRequest) error {
	taskID, err := m.sora.CreateTask(ctx, gen)
	if err != nil {
		log.Printf("Sora submission failed for user %d (request %s): %v", gen.UserID, gen.ID, err)
		m.refundSubmission(gen)
		return fmt.Errorf("sora submission: %w", err)
	}

	maxAttempts := defaultMaxAttempts
	if gen.Tier == models.TierSora2Pro {
		maxAttempts = soraProMaxAttempts
	}

	job := &models.Job{
		TaskID:      taskID,
		UserID:      gen.UserID,
		Engine:      models.EngineSora,
		Cost:        gen.Cost,
		Duration:    gen.Duration,
		Orientation: gen.Orientation,
		MaxAttempts: maxAttempts,
	}
	log.Printf("Sora task %s accepted for user %d (cost %d, ceiling %d attempts)", taskID, gen.UserID, gen.Cost, maxAttempts)
	m.track(job, m.sora.TaskStatus)
	return nil
}

func (m *Manager) submitVeo(ctx context.Context, gen *models.GenerationRequest) error {
	res, err := m.veo.Generate(ctx, gen)
	if err != nil {
		log.Printf("Veo submission failed for user %d (request %s): %v", gen.UserID, gen.ID, err)
		m.refundSubmission(gen)
		return fmt.Errorf("veo submission: %w", err)
	}

	// The Veo endpoint occasionally answers with the finished asset
	// instead of a task id.
	if res.TaskID == "" {
		if res.VideoURL == "" {
			m.refundSubmission(gen)
			return fmt.Errorf("veo submission: empty response")
		}
		m.notifier.SendText(gen.UserID, m.text("veo_job_ready", nil))
		m.notifier.SendVideo(gen.UserID, res.VideoURL, m.text("veo_video_caption", nil))
		m.notifier.SendMenu(gen.UserID)
		return nil
	}

	m.notifier.SendText(gen.UserID, m.text("veo_job_accepted", nil))

	job := &models.Job{
		TaskID:      res.TaskID,
		UserID:      gen.UserID,
		Engine:      models.EngineVeo,
		Cost:        gen.Cost,
		MaxAttempts: defaultMaxAttempts,
	}
	log.Printf("Veo task %s accepted for user %d (cost %d)", res.TaskID, gen.UserID, gen.Cost)
	m.track(job, m.veo.TaskStatus)
	return nil
}

// refundSubmission is the compensating credit for a submission that never
// produced a trackable job.
func (m *Manager) refundSubmission(gen *models.GenerationRequest) {
	if err := m.ledger.AddTokens(gen.UserID, gen.Cost); err != nil {
		log.Printf("FATAL: could not refund %d tokens to user %d after failed submission: %v", gen.Cost, gen.UserID, err)
	}
	m.notifier.SendText(gen.UserID, m.text("job_submit_failed", nil))
}

func (m *Manager) track(job *models.Job, status statusFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	m.registry.add(job.TaskID, job.UserID, cancel)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()
		defer m.registry.remove(job.TaskID)
		m.poll(ctx, job, status)
	}()
}

// poll runs the fixed-cadence status loop for one job. Exactly one
// terminal outcome is reached, and the compensating credit runs at most
// once: never on success, exactly once on failure, timeout, cancellation
// or panic.
func (m *Manager) poll(ctx context.Context, job *models.Job, status statusFunc) {
	settled := false
	refund := func() {
		if settled {
			return
		}
		settled = true
		if err := m.ledger.AddTokens(job.UserID, job.Cost); err != nil {
			log.Printf("FATAL: could not refund %d tokens to user %d for task %s: %v", job.Cost, job.UserID, job.TaskID, err)
		}
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Polling panic for task %s (user %d): %v", job.TaskID, job.UserID, r)
			refund()
			m.notifier.SendText(job.UserID, m.text("job_error", nil))
		}
	}()

	for attempt := 0; attempt < job.MaxAttempts; attempt++ {
		st, err := status(ctx, job.TaskID)
		if err != nil {
			// Transient: bad status code or unparseable body. Costs an
			// attempt, decides nothing.
			log.Printf("Transient poll error for task %s (attempt %d/%d): %v", job.TaskID, attempt+1, job.MaxAttempts, err)
			if !m.sleep(ctx) {
				refund()
				return
			}
			continue
		}

		switch st.State {
		case kie.TaskSucceeded:
			if st.VideoURL == "" {
				// Degraded success: the provider finished but no known
				// response shape carried a link. The cost stays spent.
				log.Printf("Task %s succeeded without a video URL (user %d)", job.TaskID, job.UserID)
				m.notifier.SendText(job.UserID, m.text("job_no_url", nil))
				return
			}
			m.notifySuccess(job, st.VideoURL)
			return

		case kie.TaskFailed:
			reason := st.FailMsg
			if reason == "" {
				reason = m.text("job_failed_generic", nil)
			}
			log.Printf("Task %s failed for user %d: %s", job.TaskID, job.UserID, reason)
			refund()
			m.notifier.SendText(job.UserID, m.text("job_failed", map[string]string{"Reason": reason}))
			return
		}

		if !m.sleep(ctx) {
			refund()
			return
		}
	}

	log.Printf("Task %s timed out after %d attempts (user %d)", job.TaskID, job.MaxAttempts, job.UserID)
	refund()
	m.notifier.SendText(job.UserID, m.text("job_timeout", nil))
}

func (m *Manager) notifySuccess(job *models.Job, videoURL string) {
	if job.Engine == models.EngineVeo {
		m.notifier.SendText(job.UserID, m.text("veo_job_ready", nil))
		m.notifier.SendVideo(job.UserID, videoURL, m.text("veo_video_caption", nil))
	} else {
		m.notifier.SendText(job.UserID, m.text("job_ready", map[string]string{
			"Duration":    strconv.Itoa(job.Duration),
			"Orientation": string(job.Orientation),
		}))
		m.notifier.SendVideo(job.UserID, videoURL, m.text("video_caption", nil))
	}
	m.notifier.SendMenu(job.UserID)
}

// sleep waits one poll interval. A false return means the job was
// cancelled while waiting.
func (m *Manager) sleep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-time.After(m.pollInterval):
		return true
	}
}

func (m *Manager) text(id string, data map[string]string) string {
	msg, err := m.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		return id
	}
	return msg
}
