// Package client talks to the scattering-data backend: it builds calibration
// queries, fetches raw images, q-vectors and azimuthal integrations, and
// validates every payload at a single decoding boundary before handing it on.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"saxslinecut/internal/models"
	"saxslinecut/pkg/logger"
)

// Backend endpoint paths, relative to the base URL
const (
	ImagesPath    = "/api/images"
	QVectorsPath  = "/api/q_vectors"
	AzimuthalPath = "/api/azimuthal_integration"
	OverviewPath  = "/api/overview"
)

// maxResponseBytes caps a single response body
const maxResponseBytes = 1 << 30

// Client fetches backend data over HTTP
type Client struct {
	baseURL *url.URL
	http    *http.Client
	log     logger.Logger
}

// New creates a client for baseURL. A zero timeout means no timeout.
func New(baseURL string, timeout time.Duration, log logger.Logger) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "invalid backend URL %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("backend URL %q must be http or https", baseURL)
	}
	if log == nil {
		log = logger.Discard
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}, nil
}

// CalibrationQuery returns the calibration parameters as query values
func CalibrationQuery(c models.CalibrationParams) url.Values {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	q := url.Values{}
	q.Set("sample_detector_distance", f(c.SampleDetectorDistance))
	q.Set("beam_center_x", f(c.BeamCenterX))
	q.Set("beam_center_y", f(c.BeamCenterY))
	q.Set("pixel_size_x", f(c.PixelSizeX))
	q.Set("pixel_size_y", f(c.PixelSizeY))
	q.Set("wavelength", f(c.Wavelength))
	q.Set("tilt", f(c.Tilt))
	q.Set("tilt_plan_rotation", f(c.TiltPlaneRotation))
	return q
}

// FormatRange joins a [min, max] pair with a comma
func FormatRange(r [2]float64) string {
	return strconv.FormatFloat(r[0], 'g', -1, 64) + "," + strconv.FormatFloat(r[1], 'g', -1, 64)
}

// FetchImages fetches the raw image triple for the two named images
func (c *Client) FetchImages(ctx context.Context, left, right string) (*ImageTriple, error) {
	q := url.Values{}
	q.Set("image_1", left)
	q.Set("image_2", right)
	body, err := c.get(ctx, ImagesPath, q)
	if err != nil {
		return nil, err
	}
	return DecodeImageTriple(body)
}

// FetchQVectors fetches the q-vectors for a calibration
func (c *Client) FetchQVectors(ctx context.Context, cal models.CalibrationParams) (models.QVectors, error) {
	body, err := c.get(ctx, QVectorsPath, CalibrationQuery(cal))
	if err != nil {
		return models.QVectors{}, err
	}
	return DecodeQVectors(body)
}

// FetchAzimuthal fetches the azimuthal integration of both images over an
// azimuth range. The response depends only on the calibration and the
// range, which is what the matrix cache is keyed on.
func (c *Client) FetchAzimuthal(ctx context.Context, cal models.CalibrationParams, azimuthRange [2]float64) (*AzimuthalResponse, error) {
	q := CalibrationQuery(cal)
	q.Set("azimuth_range_deg", FormatRange(azimuthRange))
	body, err := c.get(ctx, AzimuthalPath, q)
	if err != nil {
		return nil, err
	}
	return DecodeAzimuthalResponse(body)
}

// FetchOverview fetches the per-image intensity summary
func (c *Client) FetchOverview(ctx context.Context) (*Overview, error) {
	body, err := c.get(ctx, OverviewPath, nil)
	if err != nil {
		return nil, err
	}
	return DecodeOverview(body)
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}

	c.log.Debugf("GET %s", u.String())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "GET %s", path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s response", path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Path: path, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	return body, nil
}

// StatusError is returned for a non-200 backend response
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.Path, e.StatusCode, e.Body)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
