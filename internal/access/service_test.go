package access

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"warden/internal/access/mocks"
	"warden/internal/domain"
	"warden/internal/policy"
	id "warden/pkg/domain"
	dErrors "warden/pkg/domain-errors"
	"warden/pkg/requestcontext"
)

type serviceMocks struct {
	policies *mocks.MockPolicyResolver
	roster   *mocks.MockRosterProvider
	sink     *mocks.MockDecisionSink
	events   *mocks.MockEventPublisher
}

func newTestService(t *testing.T) (*Service, serviceMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := serviceMocks{
		policies: mocks.NewMockPolicyResolver(ctrl),
		roster:   mocks.NewMockRosterProvider(ctrl),
		sink:     mocks.NewMockDecisionSink(ctrl),
		events:   mocks.NewMockEventPublisher(ctrl),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(m.policies, m.roster, m.sink, logger, WithPublisher(m.events)), m
}

// expectAppend arms the sink and publisher for one decision and returns
// a pointer that will hold the appended record. Publishing must happen
// after the append attempt.
func expectAppend(m serviceMocks, status domain.PersistStatus) *domain.AccessDecision {
	appended := &domain.AccessDecision{}
	appendCall := m.sink.EXPECT().Append(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, d domain.AccessDecision) (domain.PersistStatus, error) {
			*appended = d
			return status, nil
		})
	gomock.InOrder(appendCall, m.events.EXPECT().Publish(gomock.Any(), gomock.Any()))
	return appended
}

func flatEmbedding(fill float64) domain.Embedding {
	e := make(domain.Embedding, domain.EmbeddingDim)
	for i := range e {
		e[i] = fill
	}
	return e
}

func factoryPolicy() policy.EnvironmentPolicy {
	return policy.EnvironmentPolicy{
		ID:                   "factory_floor",
		DisplayName:          "Factory Floor",
		RequiresUniformCheck: true,
		FaceMatchThreshold:   0.6,
		UniformPassThreshold: 0.5,
		RequiredItems:        []id.ItemKind{"safety_helmet"},
		OptionalItems:        map[id.ItemKind]float64{"safety_vest": 1},
	}
}

func enrolledWorker() domain.Identity {
	return domain.Identity{
		ID:            id.NewIdentityID(),
		EnvironmentID: "factory_floor",
		DisplayName:   "Dana Oduya",
		Embedding:     flatEmbedding(0.25),
		Active:        true,
	}
}

// detectionInput is a Wednesday morning request from the factory floor.
func detectionInput(items map[id.ItemKind]float64) domain.DetectionInput {
	return domain.DetectionInput{
		EnvironmentID:  "factory_floor",
		SourceID:       id.NewSourceID(),
		Timestamp:      time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
		QueryEmbedding: flatEmbedding(0.25),
		DetectedItems:  items,
	}
}

func TestEvaluate_GrantsOnMatchAndCompliance(t *testing.T) {
	svc, m := newTestService(t)
	worker := enrolledWorker()
	input := detectionInput(map[id.ItemKind]float64{"safety_helmet": 0.75, "safety_vest": 0.75})

	m.policies.EXPECT().Get(id.EnvironmentID("factory_floor")).Return(factoryPolicy(), nil)
	m.roster.EXPECT().Snapshot(gomock.Any(), id.EnvironmentID("factory_floor")).Return([]domain.Identity{worker}, nil)
	appended := expectAppend(m, domain.PersistedPrimary)

	decision, status, err := svc.Evaluate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.PersistedPrimary, status)
	assert.True(t, decision.Granted)
	assert.Equal(t, domain.DenyNone, decision.DenyReason)
	assert.Equal(t, domain.MatchMatched, decision.Match.Decision)
	assert.Equal(t, worker.ID, decision.Match.IdentityID)
	assert.Equal(t, "Dana Oduya", decision.Match.DisplayName)
	assert.Equal(t, 1.0, decision.Match.Confidence)
	assert.Equal(t, domain.CompliancePass, decision.Compliance.Decision)
	assert.Equal(t, 0.75, decision.Compliance.Score)
	assert.False(t, decision.ID.IsNil())
	assert.Equal(t, input.Timestamp, decision.Timestamp)
	assert.Equal(t, decision, *appended)
}

func TestEvaluate_DeniesOnMissingRequiredItem(t *testing.T) {
	svc, m := newTestService(t)
	input := detectionInput(map[id.ItemKind]float64{"safety_vest": 0.75})

	m.policies.EXPECT().Get(id.EnvironmentID("factory_floor")).Return(factoryPolicy(), nil)
	m.roster.EXPECT().Snapshot(gomock.Any(), id.EnvironmentID("factory_floor")).Return([]domain.Identity{enrolledWorker()}, nil)
	expectAppend(m, domain.PersistedPrimary)

	decision, _, err := svc.Evaluate(context.Background(), input)
	require.NoError(t, err)

	assert.False(t, decision.Granted)
	assert.Equal(t, domain.DenyUniformNonCompliant, decision.DenyReason)
	assert.Equal(t, domain.MatchMatched, decision.Match.Decision)
	assert.Equal(t, domain.ComplianceFail, decision.Compliance.Decision)
	assert.Equal(t, []id.ItemKind{"safety_helmet"}, decision.Compliance.MissingRequired)
	assert.Zero(t, decision.Compliance.Score)
}

func TestEvaluate_DeniesOnNoMatch(t *testing.T) {
	svc, m := newTestService(t)
	input := detectionInput(map[id.ItemKind]float64{"safety_helmet": 0.75, "safety_vest": 0.75})
	input.QueryEmbedding = flatEmbedding(0.375)

	m.policies.EXPECT().Get(id.EnvironmentID("factory_floor")).Return(factoryPolicy(), nil)
	m.roster.EXPECT().Snapshot(gomock.Any(), id.EnvironmentID("factory_floor")).Return([]domain.Identity{enrolledWorker()}, nil)
	expectAppend(m, domain.PersistedPrimary)

	decision, _, err := svc.Evaluate(context.Background(), input)
	require.NoError(t, err)

	assert.False(t, decision.Granted)
	assert.Equal(t, domain.DenyIdentityNotRecognized, decision.DenyReason)
	assert.Equal(t, domain.MatchNoMatch, decision.Match.Decision)
	assert.True(t, decision.Match.IdentityID.IsNil())
	// Compliance still ran for the audit record.
	assert.Equal(t, domain.CompliancePass, decision.Compliance.Decision)
}

func TestEvaluate_DeniesOutsideSchedule(t *testing.T) {
	svc, m := newTestService(t)
	pol := factoryPolicy()
	pol.Schedule = policy.Schedule{
		Days: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday,
			time.Thursday, time.Friday, time.Saturday,
		},
		Start: "06:00",
		End:   "22:00",
	}
	input := detectionInput(map[id.ItemKind]float64{"safety_helmet": 0.75, "safety_vest": 0.75})
	input.Timestamp = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) // Sunday

	m.policies.EXPECT().Get(id.EnvironmentID("factory_floor")).Return(pol, nil)
	m.roster.EXPECT().Snapshot(gomock.Any(), id.EnvironmentID("factory_floor")).Return([]domain.Identity{enrolledWorker()}, nil)
	expectAppend(m, domain.PersistedPrimary)

	decision, _, err := svc.Evaluate(context.Background(), input)
	require.NoError(t, err)

	assert.False(t, decision.Granted)
	assert.Equal(t, domain.DenyOutsideSchedule, decision.DenyReason)
	// Match and compliance still carry the full picture.
	assert.Equal(t, domain.MatchMatched, decision.Match.Decision)
	assert.Equal(t, domain.CompliancePass, decision.Compliance.Decision)
}

func TestEvaluate_UnknownEnvironmentFailsClosed(t *testing.T) {
	svc, m := newTestService(t)
	input := detectionInput(nil)
	input.EnvironmentID = "moon_base"

	m.policies.EXPECT().Get(id.EnvironmentID("moon_base")).
		Return(policy.EnvironmentPolicy{}, dErrors.New(dErrors.CodeUnknownEnvironment, "environment not registered"))
	appended := expectAppend(m, domain.PersistedPrimary)

	decision, status, err := svc.Evaluate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.PersistedPrimary, status)
	assert.False(t, decision.Granted)
	assert.Equal(t, domain.DenyConfigurationError, decision.DenyReason)
	assert.Equal(t, id.EnvironmentID("moon_base"), decision.EnvironmentID)
	assert.Zero(t, decision.Match)
	assert.Zero(t, decision.Compliance.Score)
	assert.Equal(t, decision, *appended)
}

func TestEvaluate_RosterFailureFailsClosed(t *testing.T) {
	svc, m := newTestService(t)
	input := detectionInput(nil)

	m.policies.EXPECT().Get(id.EnvironmentID("factory_floor")).Return(factoryPolicy(), nil)
	m.roster.EXPECT().Snapshot(gomock.Any(), id.EnvironmentID("factory_floor")).
		Return(nil, dErrors.New(dErrors.CodeInternal, "store unavailable"))
	expectAppend(m, domain.PersistedLocally)

	decision, status, err := svc.Evaluate(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.PersistedLocally, status)
	assert.False(t, decision.Granted)
	assert.Equal(t, domain.DenyConfigurationError, decision.DenyReason)
}

func TestEvaluate_ActivePolicyAndRequestTimeDefaults(t *testing.T) {
	svc, m := newTestService(t)
	input := detectionInput(map[id.ItemKind]float64{"safety_helmet": 0.75, "safety_vest": 0.75})
	input.EnvironmentID = ""
	input.Timestamp = time.Time{}

	m.policies.EXPECT().Active().Return(factoryPolicy(), nil)
	m.roster.EXPECT().Snapshot(gomock.Any(), id.EnvironmentID("factory_floor")).Return([]domain.Identity{enrolledWorker()}, nil)
	expectAppend(m, domain.PersistedPrimary)

	received := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), received)

	decision, _, err := svc.Evaluate(ctx, input)
	require.NoError(t, err)

	assert.Equal(t, id.EnvironmentID("factory_floor"), decision.EnvironmentID)
	assert.Equal(t, received, decision.Timestamp)
	assert.True(t, decision.Granted)
}

func TestEvaluate_RejectsMalformedInput(t *testing.T) {
	svc, _ := newTestService(t)
	input := detectionInput(nil)
	input.QueryEmbedding = input.QueryEmbedding[:domain.EmbeddingDim-1]

	_, _, err := svc.Evaluate(context.Background(), input)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func TestEvaluate_DoublePersistenceFailureIsAnError(t *testing.T) {
	svc, m := newTestService(t)
	input := detectionInput(map[id.ItemKind]float64{"safety_helmet": 0.75, "safety_vest": 0.75})

	m.policies.EXPECT().Get(id.EnvironmentID("factory_floor")).Return(factoryPolicy(), nil)
	m.roster.EXPECT().Snapshot(gomock.Any(), id.EnvironmentID("factory_floor")).Return([]domain.Identity{enrolledWorker()}, nil)
	m.sink.EXPECT().Append(gomock.Any(), gomock.Any()).
		Return(domain.PersistStatus(""), dErrors.New(dErrors.CodePersistenceDegraded, "decision could not be persisted"))
	// No publish: an unpersisted decision never reaches downstream.

	decision, status, err := svc.Evaluate(context.Background(), input)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePersistenceDegraded))
	assert.Zero(t, decision)
	assert.Empty(t, status)
}
