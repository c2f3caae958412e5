package payment

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/mizuki-dev/GiftMarche/app/models"
	"github.com/mizuki-dev/GiftMarche/app/repository"
)

// AccountPoller reconciles pending verification records against the
// provider's live account status. It is a backstop for webhook delivery, not
// a retry policy: started on demand after an onboarding request, bounded by
// a timeout, stopping early once every pending record resolved.
type AccountPoller struct {
	repos  *repository.Repositories
	client ProviderClient
	cfg    Config

	// OnResolved is invoked once when all pending records resolved within
	// the timeout window. Optional.
	OnResolved func()

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

// NewAccountPoller creates an account status poller.
func NewAccountPoller(repos *repository.Repositories, client ProviderClient, cfg Config) *AccountPoller {
	return &AccountPoller{repos: repos, client: client, cfg: cfg}
}

// Start launches the polling loop. Starting while already running is a no-op.
func (p *AccountPoller) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})

	log.Infof("[AccountPoller] Starting (interval=%s, timeout=%s)", p.cfg.PollInterval, p.cfg.PollTimeout)
	p.wg.Add(1)
	go p.loop()
}

// Stop terminates the loop and waits for the worker to exit.
func (p *AccountPoller) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.wg.Wait()
}

// Running reports whether the loop is active.
func (p *AccountPoller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *AccountPoller) loop() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.PollInterval)
	defer ticker.Stop()
	deadline := time.NewTimer(p.cfg.PollTimeout)
	defer deadline.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-deadline.C:
			log.Warn("[AccountPoller] Timed out with unresolved accounts")
			p.finish()
			return
		case <-ticker.C:
			if p.tick() {
				log.Info("[AccountPoller] All pending accounts resolved")
				if p.OnResolved != nil {
					p.OnResolved()
				}
				p.finish()
				return
			}
		}
	}
}

// tick reconciles one round and reports whether every pending record
// resolved. A failing per-account lookup is logged and skipped; it never
// aborts the round.
func (p *AccountPoller) tick() bool {
	pending, err := p.repos.StripeAccount.ListByStatuses([]string{
		models.AccountStatusPending,
		models.AccountStatusPendingVerification,
	})
	if err != nil {
		log.Errorf("[AccountPoller] Listing pending accounts failed: %v", err)
		return false
	}
	if len(pending) == 0 {
		return true
	}

	var ids []uint
	var statuses []string
	resolved := 0

	for i := range pending {
		record := &pending[i]
		acct, err := p.client.GetAccount(record.ProviderAccountID)
		if err != nil {
			log.Warnf("[AccountPoller] Fetching account %s failed, skipping: %v", record.ProviderAccountID, err)
			continue
		}

		derived, ok := StatusFromAccount(acct, p.cfg.LiveMode)
		if !ok || derived == models.AccountStatusPending {
			continue
		}
		resolved++
		if derived == record.Status || !CanTransition(record.Status, derived) {
			continue
		}
		ids = append(ids, record.ID)
		statuses = append(statuses, derived)
	}

	if len(ids) > 0 {
		if err := p.repos.StripeAccount.UpdateStatusBatch(ids, statuses); err != nil {
			log.Errorf("[AccountPoller] Batch status update failed: %v", err)
			return false
		}
		log.Infof("[AccountPoller] Updated %d account(s)", len(ids))
	}

	return resolved == len(pending)
}

func (p *AccountPoller) finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.running = false
}
