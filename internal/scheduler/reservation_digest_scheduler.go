package scheduler

import (
	"time"

	"github.com/riadice/riadice-backend/internal/app/service"
	"github.com/riadice/riadice-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// DigestSource is the slice of ReservationService the scheduler needs
type DigestSource interface {
	Digest(date string) (*service.ReservationDigest, error)
}

// ReservationDigestScheduler logs the day's reservations once a day. It never changes any status.
type ReservationDigestScheduler struct {
	cron   *cron.Cron
	source DigestSource
	spec   string
	now    func() time.Time
}

func NewReservationDigestScheduler(source DigestSource, spec string) *ReservationDigestScheduler {
	return &ReservationDigestScheduler{
		cron:   cron.New(),
		source: source,
		spec:   spec,
		now:    time.Now,
	}
}

// Start registers the digest job and starts the cron runner
func (s *ReservationDigestScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for reservation digest", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Reservation digest scheduler started", map[string]interface{}{
		"spec": s.spec,
	})
	return nil
}

// RunOnce logs today's digest
func (s *ReservationDigestScheduler) RunOnce() {
	today := s.now().Format(service.DateLayout)

	digest, err := s.source.Digest(today)
	if err != nil {
		logger.Error("Failed to build reservation digest", err, map[string]interface{}{
			"date": today,
		})
		return
	}

	logger.Info("Reservation digest", map[string]interface{}{
		"date":      digest.Date,
		"total":     digest.Total,
		"guests":    digest.Guests,
		"by_status": digest.ByStatus,
	})
}

func (s *ReservationDigestScheduler) Stop() {
	logger.Info("Stopping reservation digest scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Reservation digest scheduler stopped")
}
