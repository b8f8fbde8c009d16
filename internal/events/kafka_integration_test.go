//go:build integration

package events

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"warden/internal/domain"
	id "warden/pkg/domain"
	"warden/pkg/testutil/containers"
)

func TestKafkaPublishRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	redpanda := containers.GetManager().GetRedpanda(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	topic := "warden.decisions.test-" + uuid.NewString()

	publisher, err := NewKafka([]string{redpanda.Broker}, logger, WithTopic(topic))
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, publisher.EnsureTopic(ctx, 1, 1))
	// Creating an existing topic is not an error.
	require.NoError(t, publisher.EnsureTopic(ctx, 1, 1))

	decision := domain.AccessDecision{
		ID:            id.NewDecisionID(),
		Timestamp:     time.Date(2025, 11, 4, 8, 30, 0, 0, time.UTC),
		EnvironmentID: "factory_floor",
		SourceID:      id.NewSourceID(),
		Match: domain.MatchResult{
			IdentityID:  id.NewIdentityID(),
			DisplayName: "Dana Oduya",
			Confidence:  0.875,
			Decision:    domain.MatchMatched,
		},
		Compliance: domain.ComplianceResult{
			Score:             0.75,
			RequiredSatisfied: true,
			Decision:          domain.CompliancePass,
		},
		Granted: true,
	}
	publisher.Publish(ctx, decision)
	publisher.Close()

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(redpanda.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	pollCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var records []*kgo.Record
	for len(records) == 0 {
		fetches := consumer.PollFetches(pollCtx)
		require.Empty(t, fetches.Errors())
		fetches.EachRecord(func(record *kgo.Record) {
			records = append(records, record)
		})
	}

	require.Len(t, records, 1)
	assert.Equal(t, []byte("factory_floor"), records[0].Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, decision.ID.String(), got["id"])
	assert.Equal(t, true, got["granted"])
}
