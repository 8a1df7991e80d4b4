package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"BourseWatch/internal/model"
	"BourseWatch/internal/notifier"

	"github.com/robfig/cron/v3"
)

// Signals is the read side of the extraction cache.
type Signals interface {
	Get() ([]model.AssetSignal, error)
}

// Sender delivers outbound messages to the configured chat.
type Sender interface {
	Send(text string) error
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

const startMessage = "Hello — I send BUY/SELL notifications at 09:30 and 15:00 on weekdays.\n" +
	"Commands: /what_to_buy /what_to_sell /what_to_keep /what_to_take_profit"

// commandActions binds each listing command to its bucket.
var commandActions = map[string]model.Action{
	"/what_to_buy":         model.ActionBuy,
	"/what_to_sell":        model.ActionSell,
	"/what_to_keep":        model.ActionKeep,
	"/what_to_take_profit": model.ActionTakeProfit,
}

// Scheduler runs the two daily scan pushes and serves chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Cache    Signals
	Notifier Sender
	Location *time.Location
	Ctx      context.Context

	now func() time.Time
}

// NewScheduler creates a scheduler whose cron fires in the given location.
func NewScheduler(ctx context.Context, cache Signals, sender Sender, loc *time.Location) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithLocation(loc)),
		Cache:    cache,
		Notifier: sender,
		Location: loc,
		Ctx:      ctx,
		now:      time.Now,
	}
}

// RegisterAll registers the morning and afternoon scan tasks.
func (s *Scheduler) RegisterAll(morningCron, afternoonCron string) error {
	if _, err := s.Cron.AddFunc(morningCron, s.scanTask); err != nil {
		return fmt.Errorf("register morning scan: %w", err)
	}
	if _, err := s.Cron.AddFunc(afternoonCron, s.scanTask); err != nil {
		return fmt.Errorf("register afternoon scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// scanTask pushes the BUY/SELL listing to the configured chat. Weekends are
// a silent no-op; failures are logged and the run skipped without sending.
func (s *Scheduler) scanTask() {
	now := s.now().In(s.Location)
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		log.Println("[INFO] weekend, skipping scheduled scan")
		return
	}

	items, err := s.Cache.Get()
	if err != nil {
		log.Printf("[ERROR] scheduled scan: %v", err)
		return
	}

	groups := notifier.GroupByAction(items)
	buy := groups[model.ActionBuy]
	sell := groups[model.ActionSell]
	header := fmt.Sprintf("📊 Market scan (%s)", now.Format("2006-01-02 15:04 MST"))

	if len(buy) == 0 && len(sell) == 0 {
		s.trySend(header + "\nNo BUY/SELL opportunities found.")
		log.Println("[INFO] scheduled scan sent: no opportunities")
		return
	}

	var b strings.Builder
	b.WriteString(header + "\n\n")
	if len(buy) > 0 {
		b.WriteString("✅ BUY:\n" + notifier.FormatListing(buy) + "\n\n")
	}
	if len(sell) > 0 {
		b.WriteString("🛑 SELL:\n" + notifier.FormatListing(sell) + "\n\n")
	}
	for _, part := range notifier.SplitMessage(b.String(), notifier.MessageLimit) {
		s.trySend(part)
	}
	log.Println("[INFO] scheduled BUY/SELL scan sent")
}

// HandleCommand processes a user command and returns the reply parts.
func (s *Scheduler) HandleCommand(command string) []string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil
	}
	cmd := strings.ToLower(fields[0])

	if cmd == "/start" {
		return []string{startMessage}
	}

	action, ok := commandActions[cmd]
	if !ok {
		return []string{"Unknown command.\nCommands: /what_to_buy /what_to_sell /what_to_keep /what_to_take_profit"}
	}

	items, err := s.Cache.Get()
	if err != nil {
		log.Printf("[ERROR] command %s: %v", cmd, err)
		return []string{"Error fetching data. Try again later."}
	}

	bucket := notifier.GroupByAction(items)[action]
	if len(bucket) == 0 {
		return []string{fmt.Sprintf("No items for %s.", action)}
	}

	text := fmt.Sprintf("%s list (sorted by Potential):\n\n%s", action, notifier.FormatListing(bucket))
	return notifier.SplitMessage(text, notifier.MessageLimit)
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
