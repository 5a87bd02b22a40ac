// Package session owns the state of one comparison session: calibration,
// q-vectors, resolution tiers, display settings and the linecut collections.
// Every mutation goes through a typed method so that derived state (display
// arrays, sampled profiles, the azimuthal cache) is updated in one place.
package session

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/azimuthal"
	"saxslinecut/pkg/client"
	"saxslinecut/pkg/collection"
	"saxslinecut/pkg/logger"
	"saxslinecut/pkg/qmap"
	"saxslinecut/pkg/resolution"
	"saxslinecut/pkg/scheduler"
	"saxslinecut/pkg/transform"
)

// Display is the transformed active tier, ready for rendering
type Display struct {
	Resolution models.Resolution
	Factor     int
	Array1     models.Image
	Array2     models.Image
	Diff       models.Image
}

// Session is the top-level controller. It is safe for concurrent use;
// throttled linecut updates are applied from scheduler goroutines.
type Session struct {
	ID string

	fetcher Fetcher
	log     logger.Logger
	opts    Options

	mu          sync.RWMutex
	calibration models.CalibrationParams
	qVectors    models.QVectors
	locator     *qmap.Locator // built on demand from qVectors
	tiers       *models.TierSet
	machine     *resolution.Machine
	settings    transform.Settings
	display     Display

	// sampled holds the transformed full-resolution arrays that linecuts
	// are cut from, so sampling never depends on the active tier
	sampled1, sampled2 models.Image

	horizontal *collection.Manager[models.Linecut]
	vertical   *collection.Manager[models.Linecut]
	inclined   *collection.Manager[models.InclinedLinecut]
	azimuthal  *collection.Manager[models.AzimuthalIntegration]

	profiles         map[profileKey]LinecutProfiles
	inclinedProfiles map[int]InclinedProfiles

	azCache    *azimuthal.MatrixCache
	azResponse *client.AzimuthalResponse
	azData     map[int]AzimuthalResult

	throttle   *scheduler.Coalescer
	generation uint64
	loading    atomic.Bool
}

// New creates an empty session. fetcher may be nil for offline use, in
// which case every fetching operation fails.
func New(fetcher Fetcher, opts Options, log logger.Logger) *Session {
	if log == nil {
		log = logger.Discard
	}
	return &Session{
		ID:               uuid.New().String(),
		fetcher:          fetcher,
		log:              log,
		opts:             opts,
		settings:         opts.Transform,
		machine:          resolution.NewMachine(nil, opts.Thresholds, opts.Padding),
		horizontal:       collection.NewManager[models.Linecut](opts.Palette),
		vertical:         collection.NewManager[models.Linecut](opts.Palette),
		inclined:         collection.NewManager[models.InclinedLinecut](opts.Palette),
		azimuthal:        collection.NewManager[models.AzimuthalIntegration](opts.Palette),
		profiles:         make(map[profileKey]LinecutProfiles),
		inclinedProfiles: make(map[int]InclinedProfiles),
		azCache:          azimuthal.NewMatrixCache(),
		azData:           make(map[int]AzimuthalResult),
		throttle:         scheduler.NewCoalescer(opts.ThrottleInterval),
	}
}

// Close stops pending throttled updates
func (s *Session) Close() {
	s.throttle.Stop()
}

// Flush applies every pending throttled update immediately
func (s *Session) Flush() {
	s.throttle.Flush()
}

// Generation returns the number of fetches issued so far. Responses are
// applied in arrival order regardless of generation; a response older than
// the newest request is only logged.
func (s *Session) Generation() uint64 {
	return atomic.LoadUint64(&s.generation)
}

// Loading reports whether a log-scale toggle is in progress
func (s *Session) Loading() bool {
	return s.loading.Load()
}

func (s *Session) beginFetch() uint64 {
	return atomic.AddUint64(&s.generation, 1)
}

func (s *Session) noteStale(what string, gen uint64) {
	if latest := s.Generation(); gen < latest {
		s.log.Debugf("Applying %s response from request %d after newer request %d", what, gen, latest)
	}
}

func (s *Session) requireFetcher() error {
	if s.fetcher == nil {
		return errors.New("session has no backend")
	}
	return nil
}

// Calibration returns the current calibration
func (s *Session) Calibration() models.CalibrationParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calibration
}

// QVectors returns the current q-vectors
func (s *Session) QVectors() models.QVectors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.qVectors
}

// TransformSettings returns the display pipeline settings
func (s *Session) TransformSettings() transform.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

// Display returns the transformed active tier. The arrays are shared and
// must not be modified; they are replaced, never mutated, by the session.
func (s *Session) Display() Display {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.display
}

// Axis returns the displayed axis ranges
func (s *Session) Axis() resolution.AxisRange {
	return s.machine.Axis()
}

// Zoom returns the zoomed full-resolution pixel range, nil when not zoomed
func (s *Session) Zoom() *resolution.PixelRange {
	return s.machine.Zoom()
}

// SetCalibration replaces the calibration, invalidates the azimuthal cache,
// refetches the q-vectors and refetches every visible azimuthal integration.
// The calibration is kept even when a fetch fails; the q-vectors are only
// replaced by a successful fetch. The azimuthal refetch runs regardless of
// the q-vector outcome; the q-vector error is reported first.
func (s *Session) SetCalibration(ctx context.Context, cal models.CalibrationParams) error {
	s.mu.Lock()
	s.calibration = cal
	s.azCache.Invalidate()
	s.azResponse = nil
	s.azData = make(map[int]AzimuthalResult)
	s.mu.Unlock()

	var qErr error
	if s.fetcher != nil {
		gen := s.beginFetch()
		qv, err := s.fetcher.FetchQVectors(ctx, cal)
		if err != nil {
			s.log.Errorf("Failed to fetch q-vectors: %v", err)
			qErr = errors.Wrap(err, "fetching q-vectors")
		} else {
			s.noteStale("q-vector", gen)
			s.SetQVectors(qv)
		}
	}

	azErr := s.RefreshAzimuthal(ctx)
	if qErr != nil {
		return qErr
	}
	return azErr
}

// SetQVectors replaces the q-vectors and resamples every linecut
func (s *Session) SetQVectors(qv models.QVectors) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.qVectors = qv
	s.locator = nil
	s.recomputeAll()
}

// LoadImages fetches the named image pair and installs it
func (s *Session) LoadImages(ctx context.Context, left, right string) error {
	if err := s.requireFetcher(); err != nil {
		return err
	}
	gen := s.beginFetch()
	triple, err := s.fetcher.FetchImages(ctx, left, right)
	if err != nil {
		s.log.Errorf("Failed to fetch images %s and %s: %v", left, right, err)
		return errors.Wrap(err, "fetching images")
	}
	s.noteStale("image", gen)
	return s.SetImages(triple.Array1, triple.Array2)
}

// SetImages builds the resolution tiers for a new image pair, resets the
// view to the low tier and resamples every linecut
func (s *Session) SetImages(a1, a2 models.Image) error {
	tiers, err := resolution.BuildTiers(a1, a2, s.opts.Tiers)
	if err != nil {
		return errors.Wrap(err, "building resolution tiers")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tiers = tiers
	s.machine.SetTiers(tiers)
	s.retransform()
	s.recomputeAll()
	s.log.Infof("Loaded %dx%d images", a1.Cols(), a1.Rows())
	return nil
}

// SetTransformSettings replaces the display pipeline settings
func (s *Session) SetTransformSettings(settings transform.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.retransform()
	s.recomputeAll()
	return nil
}

// ToggleLogScale flips log scaling. Loading reports true for the configured
// delay before the change is applied; cancelling ctx during the delay
// leaves the setting unchanged.
func (s *Session) ToggleLogScale(ctx context.Context) (bool, error) {
	s.loading.Store(true)
	defer s.loading.Store(false)

	if s.opts.LogScaleDelay > 0 {
		timer := time.NewTimer(s.opts.LogScaleDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return s.TransformSettings().LogScale, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.LogScale = !s.settings.LogScale
	s.retransform()
	s.recomputeAll()
	return s.settings.LogScale, nil
}

// Relayout applies a viewport event. When the active tier changes the
// display arrays are rebuilt from the new tier.
func (s *Session) Relayout(ev resolution.RelayoutEvent) resolution.Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.machine.Relayout(ev)
	if t.TierChanged {
		s.retransformDisplay()
	}
	return t
}

// retransform rebuilds the sampled arrays and the display. Callers hold mu.
func (s *Session) retransform() {
	if s.tiers == nil {
		return
	}
	s.sampled1, s.sampled2 = transform.Apply(s.tiers.Full.Array1, s.tiers.Full.Array2, s.settings)
	s.retransformDisplay()
}

func (s *Session) retransformDisplay() {
	if s.tiers == nil {
		return
	}
	res := s.machine.Current()
	tier := s.tiers.Tier(res)
	d := Display{Resolution: res, Factor: tier.Factor}
	if res == models.ResolutionFull && s.sampled1 != nil {
		d.Array1, d.Array2 = s.sampled1, s.sampled2
	} else {
		d.Array1, d.Array2 = transform.Apply(tier.Array1, tier.Array2, s.settings)
	}
	d.Diff = transform.ApplySingle(tier.Diff, s.settings)
	s.display = d
}

// FullResolution returns the transformed full-resolution arrays that
// linecuts are sampled from, with the transformed full-resolution diff
func (s *Session) FullResolution() (Display, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tiers == nil {
		return Display{}, errors.New("no images loaded")
	}
	return Display{
		Resolution: models.ResolutionFull,
		Factor:     1,
		Array1:     s.sampled1,
		Array2:     s.sampled2,
		Diff:       transform.ApplySingle(s.tiers.Full.Diff, s.settings),
	}, nil
}
