package scheduler

import (
	"errors"
	"testing"
	"time"

	"github.com/riadice/riadice-backend/internal/app/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSource struct {
	dates []string
	err   error
}

func (r *recordingSource) Digest(date string) (*service.ReservationDigest, error) {
	r.dates = append(r.dates, date)
	if r.err != nil {
		return nil, r.err
	}
	return &service.ReservationDigest{Date: date, ByStatus: map[string]int{}}, nil
}

func TestReservationDigestScheduler_RunOnce(t *testing.T) {
	source := &recordingSource{}
	s := NewReservationDigestScheduler(source, "0 8 * * *")
	s.now = func() time.Time { return time.Date(2025, 9, 8, 8, 0, 0, 0, time.UTC) }

	s.RunOnce()
	source.err = errors.New("database is down")
	s.RunOnce()

	assert.Equal(t, []string{"2025-09-08", "2025-09-08"}, source.dates)
}

func TestReservationDigestScheduler_StartRejectsBadSpec(t *testing.T) {
	s := NewReservationDigestScheduler(&recordingSource{}, "every morning")
	assert.Error(t, s.Start())

	ok := NewReservationDigestScheduler(&recordingSource{}, "0 8 * * *")
	require.NoError(t, ok.Start())
	ok.Stop()
}
