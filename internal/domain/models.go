package domain

import (
	"time"

	"github.com/google/uuid"
)

// UnknownCandidateName is the full name used when a résumé yields no name.
const UnknownCandidateName = "Unknown"

// Education is one education entry of a candidate profile.
type Education struct {
	Degree      string `db:"degree" json:"degree"`
	Institution string `db:"institution" json:"institution"`
	Year        string `db:"graduation_year" json:"year"`
}

// WorkExperience is one employment entry of a candidate profile.
type WorkExperience struct {
	Company  string `db:"company" json:"company"`
	Position string `db:"position" json:"position"`
	Duration string `db:"duration" json:"duration"`
}

// ParsedCandidate is the typed result of parsing a structured résumé text.
// Optional strings are empty when absent and list fields are never nil.
type ParsedCandidate struct {
	FullName        string           `json:"full_name"`
	Email           string           `json:"email,omitempty"`
	Phone           string           `json:"phone,omitempty"`
	Location        string           `json:"location,omitempty"`
	Education       []Education      `json:"education"`
	WorkExperience  []WorkExperience `json:"work_experience"`
	Skills          []string         `json:"skills"`
	YearsExperience int              `json:"years_experience"`
}

// NewParsedCandidate returns a ParsedCandidate populated with defaults.
func NewParsedCandidate() ParsedCandidate {
	return ParsedCandidate{
		FullName:       UnknownCandidateName,
		Education:      []Education{},
		WorkExperience: []WorkExperience{},
		Skills:         []string{},
	}
}

// HasUsableName reports whether the name carries identity signal.
func (p *ParsedCandidate) HasUsableName() bool {
	return p.FullName != "" && p.FullName != UnknownCandidateName
}

// Candidate is a persisted candidate record owned by a single user.
type Candidate struct {
	ID                 int64           `db:"id" json:"candidate_id"`
	OwnerID            uuid.UUID       `db:"owner_id" json:"owner_id"`
	FullName           string          `db:"full_name" json:"full_name"`
	Email              string          `db:"email" json:"email,omitempty"`
	Phone              string          `db:"phone" json:"phone,omitempty"`
	Location           string          `db:"location" json:"location,omitempty"`
	YearsExperience    int             `db:"years_experience" json:"years_experience"`
	ContentFingerprint string          `db:"content_fingerprint" json:"content_fingerprint,omitempty"`
	SourceBatchID      string          `db:"source_batch_id" json:"source_batch_id,omitempty"`
	OriginalFilename   string          `db:"original_filename" json:"original_filename,omitempty"`
	ResumeFileKey      string          `db:"resume_file_key" json:"-"`
	Status             CandidateStatus `db:"status" json:"status"`
	CreatedAt          time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updated_at"`

	Education      []Education      `db:"-" json:"education"`
	WorkExperience []WorkExperience `db:"-" json:"work_experience"`
	Skills         []string         `db:"-" json:"skills"`
}

// ResumeAvailable reports whether an original file is stored for the candidate.
func (c *Candidate) ResumeAvailable() bool {
	return c.ResumeFileKey != ""
}

// NewCandidateFromParsed builds an unsaved record from parsed résumé data.
func NewCandidateFromParsed(ownerID uuid.UUID, p *ParsedCandidate) *Candidate {
	c := &Candidate{
		OwnerID:         ownerID,
		FullName:        p.FullName,
		Email:           p.Email,
		Phone:           p.Phone,
		Location:        p.Location,
		YearsExperience: p.YearsExperience,
		Status:          CandidateStatusPending,
		Education:       append([]Education{}, p.Education...),
		WorkExperience:  append([]WorkExperience{}, p.WorkExperience...),
		Skills:          append([]string{}, p.Skills...),
	}
	if c.FullName == "" {
		c.FullName = UnknownCandidateName
	}
	return c
}

// MergeNonEmpty overwrites fields of c with the non-empty fields of in.
// Child collections are replaced as a whole when in carries any entries.
// Identity, status, fingerprint and batch membership are left untouched.
func (c *Candidate) MergeNonEmpty(in *Candidate) {
	if in.FullName != "" && in.FullName != UnknownCandidateName {
		c.FullName = in.FullName
	}
	if in.Email != "" {
		c.Email = in.Email
	}
	if in.Phone != "" {
		c.Phone = in.Phone
	}
	if in.Location != "" {
		c.Location = in.Location
	}
	if in.YearsExperience > 0 {
		c.YearsExperience = in.YearsExperience
	}
	if in.OriginalFilename != "" {
		c.OriginalFilename = in.OriginalFilename
	}
	if in.ResumeFileKey != "" {
		c.ResumeFileKey = in.ResumeFileKey
	}
	if len(in.Education) > 0 {
		c.Education = append([]Education{}, in.Education...)
	}
	if len(in.WorkExperience) > 0 {
		c.WorkExperience = append([]WorkExperience{}, in.WorkExperience...)
	}
	if len(in.Skills) > 0 {
		c.Skills = append([]string{}, in.Skills...)
	}
}

// CandidateFilter narrows candidate listings. Zero values disable a filter.
type CandidateFilter struct {
	Status        CandidateStatus
	MinExperience *int
	MaxExperience *int
	Skill         string
	Location      string
	Company       string
	Position      string
	Education     string
}

// DuplicateVerdict is the outcome of duplicate detection for one ingestion
// attempt. Kind selects which of the remaining fields are meaningful.
type DuplicateVerdict struct {
	Kind              VerdictKind `json:"kind"`
	ExistingID        int64       `json:"existing_id,omitempty"`
	ExistingName      string      `json:"existing_name,omitempty"`
	MatchedAt         time.Time   `json:"matched_at,omitempty"`
	SimilarityPercent float64     `json:"similarity_percent,omitempty"`
	IsSamePerson      bool        `json:"is_same_person,omitempty"`
}

// NoMatch returns the verdict for an unseen candidate.
func NoMatch() DuplicateVerdict {
	return DuplicateVerdict{Kind: VerdictNoMatch}
}

// FileOutcome is the result of ingesting one file of a batch.
type FileOutcome struct {
	Filename            string        `json:"filename"`
	Status              OutcomeStatus `json:"status"`
	Action              UpsertAction  `json:"action,omitempty"`
	CandidateID         *int64        `json:"candidate_id,omitempty"`
	ExistingCandidateID *int64        `json:"existing_candidate_id,omitempty"`
	Message             string        `json:"message,omitempty"`
}

// BatchRun groups the ordered outcomes of one batch invocation.
type BatchRun struct {
	BatchID string        `json:"batch_id"`
	Results []FileOutcome `json:"results"`
}

// BatchReport is the aggregate view of a BatchRun returned to callers.
type BatchReport struct {
	BatchID    string        `json:"batch_id"`
	TotalFiles int           `json:"total_files"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Duplicates int           `json:"duplicates"`
	Results    []FileOutcome `json:"results"`
}

// Report derives the aggregate counts from the outcome list.
func (b *BatchRun) Report() BatchReport {
	r := BatchReport{
		BatchID:    b.BatchID,
		TotalFiles: len(b.Results),
		Results:    b.Results,
	}
	for i := range b.Results {
		switch b.Results[i].Status {
		case OutcomeSuccess:
			r.Successful++
		case OutcomeDuplicate:
			r.Duplicates++
		case OutcomeError:
			r.Failed++
		}
	}
	return r
}

// CandidateScore is the evaluation of one candidate against a job description.
type CandidateScore struct {
	CandidateID   int64    `json:"candidate_id"`
	CandidateName string   `json:"candidate_name"`
	Score         int      `json:"score"`
	Reasoning     string   `json:"reasoning"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
	Error         string   `json:"error,omitempty"`
}

// ShortlistResult is the ranked output of a shortlisting run.
type ShortlistResult struct {
	JobDescription        string           `json:"job_description"`
	TotalCandidates       int              `json:"total_candidates"`
	MinScore              int              `json:"min_score"`
	ShortlistedCandidates []CandidateScore `json:"shortlisted_candidates"`
	ScoringCriteria       string           `json:"scoring_criteria"`
}

// ResumeValidation is the verdict on whether a document is a résumé.
type ResumeValidation struct {
	IsResume        bool     `json:"is_resume"`
	Reasoning       string   `json:"reasoning"`
	MissingElements []string `json:"missing_elements"`
}
