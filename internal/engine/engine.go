package engine

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"StockSentry/internal/model"
	"StockSentry/internal/store"
	"StockSentry/internal/strategy"
)

// Notifier delivers trigger notifications. Satisfied by notifier.EmailNotifier.
type Notifier interface {
	Configured() bool
	SendTriggers(to string, events []model.TriggerEvent) int
}

// Engine drives the evaluation pass on a schedule and hands results to the
// notifier. A notification record is stored for every trigger event whether or
// not delivery succeeded.
type Engine struct {
	Cron      *cron.Cron
	Manager   *strategy.Manager
	Store     store.Store
	Notifier  Notifier
	Recipient string

	// Guards against a new tick starting while a pass is still running.
	busy sync.Mutex
}

// New creates an Engine over the given collaborators. Notifier may be nil.
func New(mgr *strategy.Manager, st store.Store, n Notifier, recipient string) *Engine {
	return &Engine{
		Cron:      cron.New(cron.WithSeconds()),
		Manager:   mgr,
		Store:     st,
		Notifier:  n,
		Recipient: recipient,
	}
}

// cronSpecForDaily converts an "HH:MM" wall-clock time into a six-field cron spec.
func cronSpecForDaily(dailyTime string) (string, error) {
	t, err := time.Parse("15:04", strings.TrimSpace(dailyTime))
	if err != nil {
		return "", fmt.Errorf("parse daily time %q: %w", dailyTime, err)
	}
	return fmt.Sprintf("0 %d %d * * *", t.Minute(), t.Hour()), nil
}

// Register schedules the daily pass, plus a short fixed interval in test mode.
func (e *Engine) Register(dailyTime string, testInterval time.Duration) error {
	spec, err := cronSpecForDaily(dailyTime)
	if err != nil {
		return err
	}
	if _, err := e.Cron.AddFunc(spec, e.RunOnce); err != nil {
		return fmt.Errorf("register daily check: %w", err)
	}
	log.Printf("[INFO] daily check scheduled at %s", dailyTime)

	if testInterval > 0 {
		if _, err := e.Cron.AddFunc(fmt.Sprintf("@every %s", testInterval), e.RunOnce); err != nil {
			return fmt.Errorf("register test interval: %w", err)
		}
		log.Printf("[INFO] test mode: checking every %s", testInterval)
	}
	return nil
}

// Start starts the cron scheduler.
func (e *Engine) Start() {
	e.Cron.Start()
	log.Println("[INFO] engine started")
}

// Stop stops the cron scheduler gracefully.
func (e *Engine) Stop() {
	e.Cron.Stop()
	log.Println("[INFO] engine stopped")
}

// RunOnce executes one evaluation cycle. A cycle already in flight causes the
// call to be skipped rather than queued.
func (e *Engine) RunOnce() {
	if !e.busy.TryLock() {
		log.Println("[WARN] evaluation pass still running, skipping this tick")
		return
	}
	defer e.busy.Unlock()
	e.runCycle()
}

func (e *Engine) runCycle() {
	log.Printf("[INFO] starting evaluation pass")

	status, err := e.Manager.StatusSummary()
	if err != nil {
		log.Printf("[ERROR] load status summary: %v", err)
		return
	}
	if status.Summary.Active == 0 {
		log.Println("[INFO] no active strategies, skipping pass")
		return
	}
	log.Printf("[INFO] evaluating %d active strategies", status.Summary.Active)

	events, err := e.Manager.EvaluateTriggers()
	if err != nil {
		log.Printf("[ERROR] evaluate triggers: %v", err)
		return
	}
	if len(events) == 0 {
		log.Println("[INFO] no strategies triggered")
		return
	}
	log.Printf("[INFO] %d strategies triggered", len(events))

	if e.Notifier != nil && e.Notifier.Configured() && e.Recipient != "" {
		sent := e.Notifier.SendTriggers(e.Recipient, events)
		log.Printf("[INFO] delivered %d/%d email notifications", sent, len(events))
	} else {
		log.Println("[WARN] email not configured, skipping delivery")
	}

	// Audit records are decoupled from delivery: one row per event, always.
	for _, ev := range events {
		msg := strategy.FormatTriggerMessage(ev)
		if err := e.Store.AddNotification(ev.Strategy.ID, msg); err != nil {
			log.Printf("[ERROR] record notification for strategy %d: %v", ev.Strategy.ID, err)
		}
	}
}
