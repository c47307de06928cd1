package tubeshelf

import (
	"context"
	"fmt"
	"log"
	"time"

	"tubeshelf/internal/models"
	"tubeshelf/shared/config"
	"tubeshelf/shared/email"
	"tubeshelf/shared/scheduler"
)

// Notifier delivers the uploads discovered by a run.
type Notifier interface {
	SendDigest(digest *models.Digest) error
}

// Agent implements the scheduler.Agent interface: each run refreshes every
// channel, after importing subscriptions when that is enabled and a session
// is active.
type Agent struct {
	config   *config.Config
	opts     []Option
	manager  *Manager
	notifier Notifier
}

// NewAgent returns an agent that opens its Manager with opts on Initialize.
func NewAgent(cfg *config.Config, opts ...Option) *Agent {
	return &Agent{config: cfg, opts: opts, notifier: newNotifier(cfg)}
}

func newNotifier(cfg *config.Config) Notifier {
	if !cfg.Email.Enabled() {
		return nil
	}
	log.Printf("Email digests enabled for %s", cfg.Email.ToEmail)
	return email.NewSender(&cfg.Email)
}

func (a *Agent) Name() string {
	return "TubeShelf"
}

func (a *Agent) Initialize(ctx context.Context) error {
	if a.manager != nil {
		return nil
	}
	log.Printf("Initializing %s...", a.Name())
	m, err := Open(ctx, a.config, a.opts...)
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	a.manager = m
	log.Printf("Library opened (%d channels, %d videos)", len(m.Library.Channels()), len(m.Library.Videos()))
	return nil
}

// Manager returns the Manager once Initialize has run.
func (a *Agent) Manager() *Manager {
	return a.manager
}

// Close releases the Manager opened by Initialize.
func (a *Agent) Close() error {
	if a.manager == nil {
		return nil
	}
	err := a.manager.Close()
	a.manager = nil
	return err
}

// RunReport is the outcome of one scheduled run.
type RunReport struct {
	Subscriptions *models.SubscriptionReport
	Refresh       *models.RefreshReport
}

func (r *RunReport) GetSummary() string {
	summary := "no refresh"
	if r.Refresh != nil {
		summary = r.Refresh.GetSummary()
	}
	if r.Subscriptions != nil && !r.Subscriptions.Empty {
		summary = fmt.Sprintf("%d new subscriptions, %s", r.Subscriptions.Added, summary)
	}
	return summary
}

func (a *Agent) RunOnce(ctx context.Context, events *scheduler.AgentEvents) error {
	if a.manager == nil {
		return fmt.Errorf("%s is not initialized", a.Name())
	}
	start := time.Now()
	report := &RunReport{}
	known := a.videoIDs()

	if a.config.Sync.AutoSubscriptions {
		if a.manager.Auth.Session(ctx).IsZero() {
			log.Println("Skipping subscription sync: not signed in")
		} else {
			subs, err := a.manager.SyncSubscriptions(ctx)
			if err != nil {
				events.OnPartialFailure(fmt.Errorf("subscription sync: %w", err), time.Since(start))
			} else {
				report.Subscriptions = subs
				report.Refresh = subs.Refresh
			}
		}
	}

	if report.Refresh == nil {
		refresh, err := a.manager.RefreshAll(ctx)
		if err != nil {
			return err
		}
		report.Refresh = refresh
	}

	if failed := report.Refresh.Failed(); len(failed) > 0 {
		events.OnPartialFailure(fmt.Errorf("%d of %d channels failed to refresh, first: %s: %w",
			len(failed), len(report.Refresh.Results), failed[0].Name, failed[0].Err), time.Since(start))
	}
	if err := a.sendDigest(known, start); err != nil {
		events.OnPartialFailure(err, time.Since(start))
	}
	events.OnSuccess(report, time.Since(start))
	return nil
}

func (a *Agent) videoIDs() map[string]struct{} {
	videos := a.manager.Library.Videos()
	ids := make(map[string]struct{}, len(videos))
	for _, v := range videos {
		ids[v.ID] = struct{}{}
	}
	return ids
}

// sendDigest mails the videos that were not stored before the run.
func (a *Agent) sendDigest(known map[string]struct{}, date time.Time) error {
	if a.notifier == nil {
		return nil
	}
	digest := &models.Digest{Date: date}
	for _, v := range a.manager.Library.Videos() {
		if _, ok := known[v.ID]; !ok {
			digest.Videos = append(digest.Videos, v)
		}
	}
	if len(digest.Videos) == 0 {
		log.Println("No new videos, skipping email")
		return nil
	}

	log.Printf("Sending email digest with %d videos", len(digest.Videos))
	if err := a.notifier.SendDigest(digest); err != nil {
		return fmt.Errorf("failed to send email digest: %w", err)
	}
	log.Println("Email digest sent successfully")
	return nil
}
