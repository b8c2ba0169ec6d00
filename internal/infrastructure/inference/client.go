package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jaehokim/marketplace-service/internal/imaging"
	"github.com/jaehokim/marketplace-service/pkg/errs"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker/v2"
)

// Classifier tags a decoded product image with its single best-guess
// category label. Runner-up candidates and confidence scores are discarded.
type Classifier interface {
	Classify(ctx context.Context, img *imaging.Image) (label string, err error)
}

// ModelClient talks to a TensorFlow-Serving style predict endpoint. The
// label vocabulary is the expensive model asset: it is loaded from disk
// exactly once and shared read-only across concurrent classify calls.
type ModelClient struct {
	endpoint   string
	modelName  string
	labelsPath string
	timeout    time.Duration
	http       *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]

	loadOnce sync.Once
	labels   []string
	loadErr  error
}

type predictRequest struct {
	Instances [][][][3]float32 `json:"instances"`
}

type predictResponse struct {
	Predictions [][]float64 `json:"predictions"`
}

func CreateModelClient(endpoint, modelName, labelsPath string, timeout time.Duration) *ModelClient {
	var st gobreaker.Settings
	st.Name = "model-inference"
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
		return counts.Requests >= 3 && failureRatio >= 0.6
	}

	return &ModelClient{
		endpoint:   endpoint,
		modelName:  modelName,
		labelsPath: labelsPath,
		timeout:    timeout,
		http:       &http.Client{Timeout: timeout},
		breaker:    gobreaker.NewCircuitBreaker[[]byte](st),
	}
}

func (c *ModelClient) Classify(ctx context.Context, img *imaging.Image) (string, error) {
	labels, err := c.loadLabels()
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Classify").Msg("label vocabulary unavailable")
		return "", errs.ErrClassification
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(predictRequest{Instances: [][][][3]float32{img.Pixels}})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Classify").Msg("")
		return "", errs.ErrClassification
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.predict(ctx, payload)
	})
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Classify").Msg("")
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errs.ErrClassificationTimeout
		}
		return "", errs.ErrClassification
	}

	var resp predictResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("component", "Classify").Msg("")
		return "", errs.ErrClassification
	}

	if len(resp.Predictions) == 0 || len(resp.Predictions[0]) == 0 {
		log.Ctx(ctx).Error().Str("component", "Classify").Msg("empty prediction vector")
		return "", errs.ErrClassification
	}

	top := argmax(resp.Predictions[0])
	if top >= len(labels) {
		log.Ctx(ctx).Error().Int("index", top).Str("component", "Classify").Msg("prediction index outside vocabulary")
		return "", errs.ErrClassification
	}

	return labels[top], nil
}

func (c *ModelClient) predict(ctx context.Context, payload []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/v1/models/%s:predict", c.endpoint, c.modelName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("predict returned status %s", resp.Status)
	}

	buf := &bytes.Buffer{}
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c *ModelClient) loadLabels() ([]string, error) {
	c.loadOnce.Do(func() {
		data, err := os.ReadFile(c.labelsPath)
		if err != nil {
			c.loadErr = err
			return
		}

		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				c.labels = append(c.labels, line)
			}
		}

		if len(c.labels) == 0 {
			c.loadErr = fmt.Errorf("label file %s is empty", c.labelsPath)
		}
	})

	return c.labels, c.loadErr
}

func argmax(scores []float64) int {
	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}
	return best
}
