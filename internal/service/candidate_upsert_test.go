package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"resumeflow/internal/domain"
	"resumeflow/internal/service"
	"resumeflow/mocks"
)

func parsedJane() *domain.ParsedCandidate {
	p := domain.NewParsedCandidate()
	p.FullName = "Jane Doe"
	p.Email = "jane@example.com"
	p.Skills = []string{"Go"}
	return &p
}

func TestCandidateUpsert_FingerprintMatchMerges(t *testing.T) {
	repo := new(mocks.MockCandidateRepo)
	owner := uuid.New()
	repo.On("FindByFingerprint", mock.Anything, owner, "fp-1").Return(&domain.Candidate{ID: 9}, nil)
	repo.On("MergeNonEmptyFields", mock.Anything, owner, int64(9), mock.MatchedBy(func(c *domain.Candidate) bool {
		return c.FullName == "Jane Doe" && c.ContentFingerprint == "fp-1" && c.SourceBatchID == "b-1"
	})).Return(nil)

	res, err := service.NewCandidateUpsert(repo).Upsert(context.Background(), service.UpsertInput{
		OwnerID: owner, BatchID: "b-1", Fingerprint: "fp-1", Parsed: parsedJane(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(9), res.CandidateID)
	assert.Equal(t, domain.UpsertActionMerged, res.Action)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestCandidateUpsert_EmailMatchReplaces(t *testing.T) {
	repo := new(mocks.MockCandidateRepo)
	owner := uuid.New()
	repo.On("FindByFingerprint", mock.Anything, owner, "fp-2").Return(nil, domain.ErrCandidateNotFound)
	repo.On("FindByEmail", mock.Anything, owner, "jane@example.com").Return(&domain.Candidate{ID: 4}, nil)
	repo.On("ReplaceScalarAndChildren", mock.Anything, owner, int64(4), mock.AnythingOfType("*domain.Candidate")).Return(nil)

	res, err := service.NewCandidateUpsert(repo).Upsert(context.Background(), service.UpsertInput{
		OwnerID: owner, Fingerprint: "fp-2", Parsed: parsedJane(), SamePersonID: 11,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(4), res.CandidateID)
	assert.Equal(t, domain.UpsertActionReplaced, res.Action)
}

func TestCandidateUpsert_SamePersonTargetReplaces(t *testing.T) {
	repo := new(mocks.MockCandidateRepo)
	owner := uuid.New()
	repo.On("FindByFingerprint", mock.Anything, owner, "fp-2").Return(nil, domain.ErrCandidateNotFound)
	repo.On("FindByEmail", mock.Anything, owner, "jane@example.com").Return(nil, domain.ErrCandidateNotFound)
	repo.On("ReplaceScalarAndChildren", mock.Anything, owner, int64(11), mock.AnythingOfType("*domain.Candidate")).Return(nil)

	res, err := service.NewCandidateUpsert(repo).Upsert(context.Background(), service.UpsertInput{
		OwnerID: owner, Fingerprint: "fp-2", Parsed: parsedJane(), SamePersonID: 11,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(11), res.CandidateID)
	assert.Equal(t, domain.UpsertActionReplaced, res.Action)
}

func TestCandidateUpsert_CreatesWhenNothingMatches(t *testing.T) {
	repo := new(mocks.MockCandidateRepo)
	owner := uuid.New()
	p := parsedJane()
	p.Email = ""
	repo.On("FindByFingerprint", mock.Anything, owner, "fp-3").Return(nil, domain.ErrCandidateNotFound)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Candidate")).
		Run(func(args mock.Arguments) {
			c := args.Get(1).(*domain.Candidate)
			assert.Equal(t, owner, c.OwnerID)
			assert.Equal(t, "fp-3", c.ContentFingerprint)
			assert.Equal(t, "b-7", c.SourceBatchID)
			assert.Equal(t, "owners/x/resumes/cv.pdf", c.ResumeFileKey)
			c.ID = 21
		}).Return(nil)

	res, err := service.NewCandidateUpsert(repo).Upsert(context.Background(), service.UpsertInput{
		OwnerID: owner, BatchID: "b-7", Fingerprint: "fp-3", Parsed: p, ResumeFileKey: "owners/x/resumes/cv.pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(21), res.CandidateID)
	assert.Equal(t, domain.UpsertActionCreated, res.Action)
	repo.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything, mock.Anything)
}

func TestCandidateUpsert_ConflictsAreTyped(t *testing.T) {
	for _, sentinel := range []error{domain.ErrDuplicateFingerprint, domain.ErrDuplicateCandidateEmail} {
		repo := new(mocks.MockCandidateRepo)
		owner := uuid.New()
		repo.On("FindByFingerprint", mock.Anything, owner, "fp").Return(nil, domain.ErrCandidateNotFound)
		repo.On("FindByEmail", mock.Anything, owner, "jane@example.com").Return(nil, domain.ErrCandidateNotFound)
		repo.On("Create", mock.Anything, mock.Anything).Return(sentinel)

		_, err := service.NewCandidateUpsert(repo).Upsert(context.Background(), service.UpsertInput{
			OwnerID: owner, Fingerprint: "fp", Parsed: parsedJane(),
		})

		assert.ErrorIs(t, err, sentinel)
	}
}

func TestCandidateUpsert_StoreFailureIsWrapped(t *testing.T) {
	repo := new(mocks.MockCandidateRepo)
	owner := uuid.New()
	boom := errors.New("connection reset")
	repo.On("FindByFingerprint", mock.Anything, owner, "fp").Return(nil, boom)

	_, err := service.NewCandidateUpsert(repo).Upsert(context.Background(), service.UpsertInput{
		OwnerID: owner, Fingerprint: "fp", Parsed: parsedJane(),
	})

	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, domain.ErrDuplicateFingerprint)
}
