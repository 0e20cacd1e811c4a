package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Malathy01/LifecodeAI/src/ai/core"
	"github.com/Malathy01/LifecodeAI/src/types"
)

const historyLimit = 5

var (
	ErrNoSession        = errors.New("no active session for user")
	ErrEmptySubmission  = errors.New("claim text or image required")
	ErrAnalysisInFlight = errors.New("identical analysis already in flight")
	ErrNotProfessional  = errors.New("professional role required")
	ErrQuestionNotFound = errors.New("question not found")
	ErrPostNotFound     = errors.New("post not found")
	ErrEmptyResponse    = errors.New("response text required")
)

// Store holds all mutable application state. Nothing is persisted; a
// restart resets everything. Every mutation runs under one lock so a
// reader never observes a half-applied action.
type Store struct {
	mu       sync.RWMutex
	analyzer core.Client

	users     map[string]*types.User
	history   map[string][]*types.Verdict // per user, newest first
	displayed map[string]*types.Verdict   // per user, currently open verdict
	questions []*types.PatientQuestion    // newest first
	posts     []*types.CommunityPost      // newest first
	trending  []types.TrendingTopic

	inflight map[string]struct{} // analysis fingerprints
}

// SignInProfile carries the submitted sign-in form fields.
type SignInProfile struct {
	Name          string
	Email         string
	Role          types.Role
	LicenseNumber string
	Specialty     string
}

// New creates a store backed by the given analysis client, pre-loaded
// with the static trending topics and the sample wellness post.
func New(analyzer core.Client) *Store {
	s := &Store{
		analyzer:  analyzer,
		users:     make(map[string]*types.User),
		history:   make(map[string][]*types.Verdict),
		displayed: make(map[string]*types.Verdict),
		inflight:  make(map[string]struct{}),
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	s.trending = []types.TrendingTopic{
		{ID: "1", Topic: "Vitamin C & COVID", Count: 1240, Type: types.TopicClaim},
		{ID: "2", Topic: "Retinol", Count: 850, Type: types.TopicIngredient},
		{ID: "3", Topic: "Apple Cider Vinegar", Count: 620, Type: types.TopicIngredient},
	}
	s.posts = []*types.CommunityPost{
		{
			ID:         "p1",
			AuthorID:   "u1",
			AuthorName: "Alex Rivera",
			Content:    "I have been using curry leaves in my hair oil for 3 months, and the shedding has significantly reduced! My grandmother was right.",
			Likes:      45,
			CreatedAt:  time.Now().UTC().Add(-17 * time.Minute),
			Comments: []types.PostComment{
				{
					ID:         "c1",
					AuthorName: "Doctor Sam",
					Content:    "While anecdotal, curry leaves are rich in antioxidants and beta-carotene which can support hair health.",
					CreatedAt:  time.Now().UTC(),
				},
			},
		},
	}
}

// SignIn fabricates a session identity from the submitted form fields.
// There is no server-side verification; it always succeeds.
func (s *Store) SignIn(profile SignInProfile) *types.User {
	name := strings.TrimSpace(profile.Name)
	if name == "" {
		if profile.Role == types.RoleProfessional {
			name = "Dr. Sarah"
		} else {
			name = "Alex"
		}
	}

	user := &types.User{
		ID:            uuid.NewString(),
		Name:          name,
		Email:         profile.Email,
		Role:          profile.Role,
		LicenseNumber: profile.LicenseNumber,
		Specialty:     profile.Specialty,
	}
	if profile.Role == types.RoleProfessional {
		user.Verified = true
		if user.Specialty == "" {
			user.Specialty = "Dermatology"
		}
	}

	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()

	log.Printf("store: session started for %s (%s)", user.Name, user.Role)
	return user
}

// User returns the session user for id, or nil.
func (s *Store) User(id string) *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[id]
}

// fingerprint identifies one logical submission so a concurrent duplicate
// can be rejected at the data layer rather than by a UI guard.
func fingerprint(text, image string) string {
	h := sha256.New()
	h.Write([]byte(strings.ToLower(strings.TrimSpace(text))))
	h.Write([]byte{0})
	h.Write([]byte(image))
	return hex.EncodeToString(h.Sum(nil))
}

// SubmitClaim runs one analysis for the user. On success the verdict is
// prepended to the user's history (capped at 5), becomes the displayed
// verdict, and, for patient sessions, spawns an OPEN portal question.
// On failure state is left unchanged.
func (s *Store) SubmitClaim(ctx context.Context, userID, text, imageData string) (*types.Verdict, error) {
	if strings.TrimSpace(text) == "" && strings.TrimSpace(imageData) == "" {
		return nil, ErrEmptySubmission
	}

	s.mu.Lock()
	user, ok := s.users[userID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoSession
	}
	fp := fingerprint(text, imageData)
	if _, busy := s.inflight[fp]; busy {
		s.mu.Unlock()
		return nil, ErrAnalysisInFlight
	}
	s.inflight[fp] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.inflight, fp)
		s.mu.Unlock()
	}()

	// Provider round-trip happens outside the lock; only the fingerprint
	// marks the submission as pending.
	verdict, err := s.analyzer.Analyze(ctx, core.AnalysisRequest{Claim: text, ImageData: imageData})
	if err != nil {
		log.Printf("store: analysis failed for %q: %v", text, err)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	hist := append([]*types.Verdict{verdict}, s.history[userID]...)
	if len(hist) > historyLimit {
		hist = hist[:historyLimit]
	}
	s.history[userID] = hist
	s.displayed[userID] = verdict

	if user.Role == types.RolePatient {
		s.questions = append([]*types.PatientQuestion{{
			ID:        uuid.NewString(),
			UserID:    user.ID,
			UserName:  user.Name,
			Text:      text,
			CreatedAt: time.Now().UTC(),
			Verdict:   verdict,
			Status:    types.QuestionOpen,
		}}, s.questions...)
	}

	return verdict, nil
}

// History returns up to the 5 most recent verdicts, newest first.
func (s *Store) History(userID string) []*types.Verdict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.Verdict, len(s.history[userID]))
	copy(out, s.history[userID])
	return out
}

// DisplayedVerdict returns the verdict currently open for the user.
func (s *Store) DisplayedVerdict(userID string) *types.Verdict {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.displayed[userID]
}

// Questions lists portal questions: professionals review every case,
// patients see only their own.
func (s *Store) Questions(userID string) ([]*types.PatientQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNoSession
	}

	out := make([]*types.PatientQuestion, 0, len(s.questions))
	for _, q := range s.questions {
		if user.Role == types.RoleProfessional || q.UserID == userID {
			out = append(out, q)
		}
	}
	return out, nil
}

// RespondToQuestion attaches a clinician response to a question and flips
// it to ANSWERED. Re-submitting replaces the text and leaves the status
// unchanged. When a session is currently displaying the verdict for the
// same claim, the comment is attached there too.
func (s *Store) RespondToQuestion(questionID, professionalID, text string) (*types.PatientQuestion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[professionalID]
	if !ok {
		return nil, ErrNoSession
	}
	if user.Role != types.RoleProfessional {
		return nil, ErrNotProfessional
	}

	var question *types.PatientQuestion
	for _, q := range s.questions {
		if q.ID == questionID {
			question = q
			break
		}
	}
	if question == nil {
		return nil, ErrQuestionNotFound
	}

	question.DoctorResponse = text
	question.Status = types.QuestionAnswered

	if question.Verdict != nil {
		question.Verdict.DoctorComment = text
		for _, v := range s.displayed {
			if v != nil && v.Claim == question.Verdict.Claim {
				v.DoctorComment = text
			}
		}
	}

	log.Printf("store: question %s answered by %s", question.ID, user.Name)
	return question, nil
}

// PostExperience prepends a wellness post to the community feed.
func (s *Store) PostExperience(userID, content string) (*types.CommunityPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNoSession
	}

	post := &types.CommunityPost{
		ID:           uuid.NewString(),
		AuthorID:     user.ID,
		AuthorName:   user.Name,
		Professional: user.Role == types.RoleProfessional,
		Content:      content,
		CreatedAt:    time.Now().UTC(),
		Comments:     []types.PostComment{},
	}
	s.posts = append([]*types.CommunityPost{post}, s.posts...)
	return post, nil
}

// AddPostComment appends a comment to an existing post.
func (s *Store) AddPostComment(postID, userID, content string) (*types.CommunityPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, ErrNoSession
	}

	for _, p := range s.posts {
		if p.ID == postID {
			p.Comments = append(p.Comments, types.PostComment{
				ID:         uuid.NewString(),
				AuthorName: user.Name,
				Content:    content,
				CreatedAt:  time.Now().UTC(),
			})
			return p, nil
		}
	}
	return nil, ErrPostNotFound
}

// LikePost increments a post's like counter.
func (s *Store) LikePost(postID string) (*types.CommunityPost, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.posts {
		if p.ID == postID {
			p.Likes++
			return p, nil
		}
	}
	return nil, ErrPostNotFound
}

// Posts returns the community feed, newest first.
func (s *Store) Posts() []*types.CommunityPost {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*types.CommunityPost, len(s.posts))
	copy(out, s.posts)
	return out
}

// Trending returns the static trending topics.
func (s *Store) Trending() []types.TrendingTopic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.TrendingTopic, len(s.trending))
	copy(out, s.trending)
	return out
}
