package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/vendia/internal/domain"
)

func TestStepValid(t *testing.T) {
	t.Parallel()

	valid := []domain.Step{
		domain.StepGreeting,
		domain.StepNeeds,
		domain.StepOffer,
		domain.StepClosing,
		domain.StepFallback,
	}
	for _, s := range valid {
		assert.Truef(t, s.Valid(), "step %q should be valid", s)
	}

	assert.False(t, domain.Step("").Valid())
	assert.False(t, domain.Step("negotiation").Valid())
	assert.False(t, domain.Step("Greeting").Valid())
}

func TestTopicValid(t *testing.T) {
	t.Parallel()

	valid := []domain.Topic{
		domain.TopicSpeed,
		domain.TopicUsage,
		domain.TopicBudget,
		domain.TopicProvider,
		domain.TopicWifi,
		domain.TopicInstallation,
		domain.TopicPromotion,
	}
	for _, topic := range valid {
		assert.Truef(t, topic.Valid(), "topic %q should be valid", topic)
	}

	assert.False(t, domain.Topic("").Valid())
	assert.False(t, domain.Topic("futebol").Valid())
}

func TestSentinelErrors(t *testing.T) {
	t.Parallel()

	sentinels := []error{domain.ErrNotFound, domain.ErrEmptyContent, domain.ErrInvalidID}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i == j {
				assert.ErrorIs(t, a, b)
			} else {
				assert.NotErrorIs(t, a, b)
			}
		}
	}

	wrapped := fmt.Errorf("store.WriteMemoryTurn: %w", domain.ErrEmptyContent)
	assert.ErrorIs(t, wrapped, domain.ErrEmptyContent)
}

func TestProviderError(t *testing.T) {
	t.Parallel()

	cause := errors.New("429 too many requests")
	perr := &domain.ProviderError{Provider: "model", Err: cause}

	assert.Contains(t, perr.Error(), "model")
	assert.ErrorIs(t, perr, cause)

	wrapped := fmt.Errorf("chat.Agent.Generate: %w", perr)
	assert.True(t, domain.IsProviderError(wrapped))

	var target *domain.ProviderError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "model", target.Provider)

	assert.False(t, domain.IsProviderError(cause))
	assert.False(t, domain.IsProviderError(nil))
}
