package services

import (
	"context"
	"time"

	"creditline/internal/pkg/logger"

	"github.com/robfig/cron/v3"
)

// CronService schedules the nightly spreadsheet ingestion
type CronService struct {
	cron   *cron.Cron
	ingest *IngestService
	log    *logger.Logger
	spec   string
}

// NewCronService creates a new cron service. spec is a standard cron
// expression, e.g. "0 2 * * *" for 02:00 daily.
func NewCronService(ingest *IngestService, log *logger.Logger, spec string) *CronService {
	return &CronService{
		cron:   cron.New(),
		ingest: ingest,
		log:    log,
		spec:   spec,
	}
}

// Start registers the ingestion job and launches the scheduler
func (s *CronService) Start() error {
	_, err := s.cron.AddFunc(s.spec, s.runIngestion)
	if err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("spec", s.spec).Msg("ingestion schedule started")
	return nil
}

// Stop stops the scheduler, waiting for a running job to finish
func (s *CronService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("ingestion schedule stopped")
}

func (s *CronService) runIngestion() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if _, err := s.ingest.RunAll(ctx); err != nil {
		s.log.Error().Err(err).Msg("scheduled ingestion failed")
	}
}
