package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestIsRetryableError(t *testing.T) {
	assert.False(t, isRetryableError(nil))
	assert.False(t, isRetryableError(context.Canceled))
	assert.False(t, isRetryableError(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))

	assert.True(t, isRetryableError(genai.APIError{Code: 429}))
	assert.True(t, isRetryableError(genai.APIError{Code: 503}))
	assert.False(t, isRetryableError(genai.APIError{Code: 400}))
	assert.True(t, isRetryableError(&genai.APIError{Code: 502}))

	assert.True(t, isRetryableError(errors.New("read tcp: connection reset by peer")))
	assert.False(t, isRetryableError(errors.New("invalid argument")))
}

func TestCalculateBackoff(t *testing.T) {
	s := &GeminiService{BaseDelay: time.Second, MaxDelay: 3 * time.Second}
	assert.Equal(t, time.Second, s.calculateBackoff(1))
	assert.Equal(t, 2*time.Second, s.calculateBackoff(2))
	assert.Equal(t, 3*time.Second, s.calculateBackoff(3))
}

func TestValidateEmbeddingResponse(t *testing.T) {
	_, err := validateEmbeddingResponse(nil)
	assert.Error(t, err)

	_, err = validateEmbeddingResponse(&genai.EmbedContentResponse{})
	assert.Error(t, err)

	_, err = validateEmbeddingResponse(&genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, float32(math.NaN())}}},
	})
	assert.Error(t, err)

	values, err := validateEmbeddingResponse(&genai.EmbedContentResponse{
		Embeddings: []*genai.ContentEmbedding{{Values: []float32{0.1, 0.2}}},
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2}, values)
}

func TestCircuitBreaker(t *testing.T) {
	s := &GeminiService{circuitBreakerMax: 2}
	s.recordFailure()
	_, open := s.CircuitBreakerStatus()
	assert.False(t, open)

	s.recordFailure()
	n, open := s.CircuitBreakerStatus()
	assert.True(t, open)
	assert.Equal(t, 2, n)

	_, err := s.GenerateEmbedding(context.Background(), "text")
	assert.ErrorContains(t, err, "circuit breaker open")

	s.recordSuccess()
	_, open = s.CircuitBreakerStatus()
	assert.False(t, open)
}

func TestCircuitBreakerAllowsTrialAfterCooldown(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &GeminiService{
		circuitBreakerMax: 5,
		breakerCooldown:   30 * time.Second,
		now:               func() time.Time { return now },
	}
	for i := 0; i < 5; i++ {
		s.recordFailure()
	}

	now = now.Add(10 * time.Second)
	_, err := s.GenerateEmbedding(context.Background(), "text")
	assert.ErrorContains(t, err, "circuit breaker open")

	now = now.Add(25 * time.Second)
	n, open := s.CircuitBreakerStatus()
	assert.False(t, open)
	assert.Equal(t, 5, n)

	s.recordFailure()
	_, open = s.CircuitBreakerStatus()
	assert.True(t, open, "a failed trial reopens the breaker")

	now = now.Add(31 * time.Second)
	s.recordSuccess()
	n, open = s.CircuitBreakerStatus()
	assert.False(t, open)
	assert.Zero(t, n)
}

func TestGenerateEmbeddingRejectsEmptyText(t *testing.T) {
	s := &GeminiService{circuitBreakerMax: 5}
	_, err := s.GenerateEmbedding(context.Background(), "  ")
	assert.Error(t, err)
}
