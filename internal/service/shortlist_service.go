package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"resumeflow/internal/config"
	"resumeflow/internal/domain"
	"resumeflow/internal/extract"
	"resumeflow/internal/generation"
	"resumeflow/internal/port"
	"resumeflow/internal/scoring"
)

// ShortlistInput is one ranking request. Limit <= 0 returns every candidate
// at or above MinScore.
type ShortlistInput struct {
	OwnerID        uuid.UUID
	JobDescription string
	MinScore       int
	Limit          int
}

// ShortlistService ranks an owner's candidates against a job description.
type ShortlistService interface {
	Shortlist(ctx context.Context, input ShortlistInput) (*domain.ShortlistResult, error)
	ShortlistDocument(ctx context.Context, input ShortlistInput, jobDescription port.RawDocument) (*domain.ShortlistResult, error)
}

type shortlistService struct {
	repo      port.CandidateRepository
	generator port.Generator
	extractor port.TextExtractor
	cfg       config.ShortlistConfig
}

// NewShortlistService creates a new ShortlistService implementation.
func NewShortlistService(
	repo port.CandidateRepository,
	generator port.Generator,
	extractor port.TextExtractor,
	cfg config.ShortlistConfig,
) ShortlistService {
	return &shortlistService{repo: repo, generator: generator, extractor: extractor, cfg: cfg}
}

func (s *shortlistService) Shortlist(ctx context.Context, in ShortlistInput) (*domain.ShortlistResult, error) {
	jd := strings.TrimSpace(in.JobDescription)
	if jd == "" {
		return nil, domain.ErrEmptyJobDescription
	}

	cands, err := s.repo.ListWithProfiles(ctx, in.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("shortlist.Shortlist: %w", err)
	}

	result := &domain.ShortlistResult{
		JobDescription:        jd,
		TotalCandidates:       len(cands),
		MinScore:              in.MinScore,
		ShortlistedCandidates: []domain.CandidateScore{},
		ScoringCriteria:       scoring.Criteria(in.MinScore),
	}
	if len(cands) == 0 {
		result.ScoringCriteria = scoring.NoCandidatesCriteria
		return result, nil
	}

	scores := make([]domain.CandidateScore, len(cands))
	g := new(errgroup.Group)
	if s.cfg.Concurrency > 0 {
		g.SetLimit(s.cfg.Concurrency)
	}
	for i := range cands {
		g.Go(func() error {
			scores[i] = s.score(ctx, jd, &cands[i])
			return nil
		})
	}
	_ = g.Wait()

	kept := scores[:0]
	for _, sc := range scores {
		if sc.Score >= in.MinScore {
			kept = append(kept, sc)
		}
	}
	sort.SliceStable(kept, func(a, b int) bool { return kept[a].Score > kept[b].Score })
	if in.Limit > 0 && len(kept) > in.Limit {
		kept = kept[:in.Limit]
	}
	result.ShortlistedCandidates = append(result.ShortlistedCandidates, kept...)
	return result, nil
}

// ShortlistDocument extracts the job description from a file and ranks
// against it.
func (s *shortlistService) ShortlistDocument(ctx context.Context, in ShortlistInput, doc port.RawDocument) (*domain.ShortlistResult, error) {
	if doc.FileType == "" {
		ft, err := extract.DetectFileType(doc.Filename)
		if err != nil {
			return nil, err
		}
		doc.FileType = ft
	}
	extraction, err := s.extractor.Extract(ctx, doc)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedFileType) {
			return nil, err
		}
		return nil, fmt.Errorf("shortlist.ShortlistDocument: %w", err)
	}
	in.JobDescription = extraction.Text
	return s.Shortlist(ctx, in)
}

// score evaluates one candidate. Failures become a zero score with an
// explanatory weakness instead of an error.
func (s *shortlistService) score(ctx context.Context, jd string, c *domain.Candidate) (out domain.CandidateScore) {
	out = domain.CandidateScore{CandidateID: c.ID, CandidateName: c.FullName}
	defer func() {
		if r := recover(); r != nil {
			log.Printf("shortlist.score: panic scoring candidate %d: %v", c.ID, r)
			out = withEvaluation(out, scoring.InfrastructureFailure())
			out.Error = fmt.Sprint(r)
		}
	}()

	completion, err := s.generator.Complete(ctx, generation.BuildScoringPrompt(jd, scoring.Summary(c)))
	if err != nil {
		log.Printf("shortlist.score: candidate %d: %v", c.ID, err)
		out = withEvaluation(out, scoring.InfrastructureFailure())
		out.Error = err.Error()
		return out
	}

	ev, err := scoring.ParseResponse(completion.Text)
	if err != nil {
		log.Printf("shortlist.score: candidate %d: unparseable response %q", c.ID, generation.Truncate(completion.Text, 200))
		return withEvaluation(out, scoring.ParseFailure())
	}
	return withEvaluation(out, ev)
}

func withEvaluation(cs domain.CandidateScore, ev scoring.Evaluation) domain.CandidateScore {
	cs.Score = ev.Score
	cs.Reasoning = ev.Reasoning
	cs.Strengths = ev.Strengths
	cs.Weaknesses = ev.Weaknesses
	return cs
}
