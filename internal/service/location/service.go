package location

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Temutjin2k/pivot-location/internal/domain/models"
	"github.com/Temutjin2k/pivot-location/internal/domain/types"
	"github.com/Temutjin2k/pivot-location/internal/service/proximity"
	"github.com/Temutjin2k/pivot-location/pkg/logger"
	wrap "github.com/Temutjin2k/pivot-location/pkg/logger/wrapper"
	"github.com/Temutjin2k/pivot-location/pkg/metrics"
	"github.com/Temutjin2k/pivot-location/pkg/trm"
	"github.com/google/uuid"
)

type Service struct {
	geocoder  Geocoder
	records   LocationRecordRepo
	users     UserRepo
	publisher EventPublisher
	notifier  Notifier
	trm       trm.TxManager
	log       logger.Logger

	now func() time.Time
}

// New creates the verification service. publisher and notifier may be nil.
func New(geocoder Geocoder, records LocationRecordRepo, users UserRepo, publisher EventPublisher, notifier Notifier, trm trm.TxManager, log logger.Logger) *Service {
	return &Service{
		geocoder:  geocoder,
		records:   records,
		users:     users,
		publisher: publisher,
		notifier:  notifier,
		trm:       trm,
		log:       log,
		now:       time.Now,
	}
}

// Verify geocodes targetAddress, measures its distance to the reported fix and
// stores the resolved location as the user's last verified location.
//
// The record is written only after geocoding succeeded, whatever the status.
func (s *Service) Verify(ctx context.Context, userID uuid.UUID, reported models.Coordinate, targetAddress string) (*models.VerificationOutcome, error) {
	const op = "location.Service.Verify"
	ctx = wrap.WithAction(wrap.WithUserID(ctx, userID.String()), types.ActionVerifyLocation)

	targetAddress = strings.TrimSpace(targetAddress)
	if err := validateVerifyInput(userID, reported, targetAddress); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	resolved, err := s.geocoder.Resolve(ctx, targetAddress)
	if err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
	}

	distance := proximity.Distance(reported, resolved.Coordinate)
	status := proximity.Classify(distance)
	verifiedAt := s.now().UTC()

	record := models.NewLocationRecord(resolved.CanonicalAddress, resolved.Coordinate, verifiedAt)
	if err := s.records.Overwrite(ctx, userID, record); err != nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStoreFailure, err))
	}

	outcome := &models.VerificationOutcome{
		UserID:             userID,
		Status:             status,
		DistanceMeters:     distance,
		VerifiedAddress:    resolved.CanonicalAddress,
		VerifiedCoordinate: resolved.Coordinate,
		Proximity:          status.Details(),
		VerifiedAt:         verifiedAt,
	}

	metrics.VerificationsTotal.WithLabelValues(status.String()).Inc()
	s.log.Info(ctx, "location verified",
		"status", status.String(),
		"distance_meters", distance,
		"verified_address", resolved.CanonicalAddress,
	)

	s.announce(ctx, outcome)

	return outcome, nil
}

// announce publishes the outcome. Failures are logged only.
func (s *Service) announce(ctx context.Context, outcome *models.VerificationOutcome) {
	event := models.NewLocationVerifiedEvent(outcome)
	ctx = wrap.WithAction(ctx, types.ActionPublishEvent)

	if s.publisher != nil {
		if err := s.publisher.PublishLocationVerified(ctx, event); err != nil {
			s.log.Warn(ctx, "failed to publish location event", "error", err.Error())
		}
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyLocationVerified(ctx, event); err != nil {
			s.log.Debug(ctx, "live feed not delivered", "error", err.Error())
		}
	}
}

// History returns the user together with the last verified location.
func (s *Service) History(ctx context.Context, userID uuid.UUID) (*models.LocationHistory, error) {
	const op = "location.Service.History"
	ctx = wrap.WithAction(wrap.WithUserID(ctx, userID.String()), types.ActionLocationHistory)

	if userID == uuid.Nil {
		return nil, wrap.Error(ctx, fmt.Errorf("%s: empty user id: %w", op, types.ErrInvalidRequest))
	}

	var history models.LocationHistory
	err := s.trm.DoReadOnly(ctx, func(ctx context.Context) error {
		user, err := s.users.GetUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if user == nil {
			return types.ErrUserNotFound
		}

		record, err := s.records.Get(ctx, userID)
		if err != nil {
			return err
		}

		history = models.LocationHistory{User: *user, Record: record}
		return nil
	})
	if err != nil {
		if errors.Is(err, types.ErrUserNotFound) {
			return nil, wrap.Error(ctx, fmt.Errorf("%s: %w", op, err))
		}
		return nil, wrap.Error(ctx, fmt.Errorf("%s: %w: %w", op, types.ErrStoreFailure, err))
	}

	return &history, nil
}

func validateVerifyInput(userID uuid.UUID, reported models.Coordinate, targetAddress string) error {
	switch {
	case userID == uuid.Nil:
		return fmt.Errorf("empty user id: %w", types.ErrInvalidRequest)
	case !reported.Valid():
		return fmt.Errorf("coordinate out of range: %w", types.ErrInvalidRequest)
	case targetAddress == "":
		return fmt.Errorf("target address is required: %w", types.ErrInvalidRequest)
	}
	return nil
}
