package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"edupocket/internal/client/cache"
	"edupocket/internal/client/models"
	"edupocket/internal/client/syncx"
	"edupocket/internal/common"
	"edupocket/internal/logging"
)

// SurveyClient is the slice of the remote API the survey builder needs.
type SurveyClient interface {
	FetchSurvey(ctx context.Context, surveyID string) (*models.Survey, error)
	CreateSurveyQuestion(ctx context.Context, surveyID, sectionID string, q models.SurveyQuestion) (*models.SurveyQuestion, error)
}

type surveyRef struct {
	ownerID  string
	surveyID string
}

// SurveyService maintains locally cached survey trees. Questions drafted
// offline are merged into the tree without an id; SyncDrafts sends them to
// the server and writes the assigned id back in place, so a draft is
// replaced, never duplicated.
type SurveyService struct {
	merge  *cache.MergeCache
	remote SurveyClient
	log    logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	pending map[surveyRef]struct{}
}

func NewSurveyService(merge *cache.MergeCache, remote SurveyClient, log logging.Logger) *SurveyService {
	return &SurveyService{
		merge: merge, remote: remote, log: log, now: time.Now,
		pending: make(map[surveyRef]struct{}),
	}
}

// Get returns the cached survey tree, or ok=false when it was never fetched.
func (s *SurveyService) Get(ctx context.Context, ownerID, surveyID string) (*models.Survey, time.Time, bool) {
	root, savedAt, ok := s.merge.GetByRootID(ctx, ownerID, surveyID)
	if !ok {
		return nil, time.Time{}, false
	}

	var survey models.Survey
	if err := decodeNode(root, &survey); err != nil {
		s.log.Warn(ctx, "cached survey unreadable, treating as absent", "survey", surveyID, "error", err)
		return nil, time.Time{}, false
	}

	if hasDrafts(root) {
		s.track(ownerID, surveyID)
	}
	return &survey, savedAt, true
}

// Refresh refetches the survey and replaces the cached tree, then re-applies
// any local drafts so an offline-composed question survives the refresh.
func (s *SurveyService) Refresh(ctx context.Context, ownerID, surveyID string) (*models.Survey, error) {
	fetched, err := s.remote.FetchSurvey(ctx, surveyID)
	if err != nil {
		return nil, err
	}

	drafts := s.collectDrafts(ctx, ownerID, surveyID)

	root, err := encodeNode(fetched)
	if err != nil {
		return nil, fmt.Errorf("survey %s: %w", surveyID, err)
	}
	if _, err := s.merge.Put(ctx, ownerID, surveyID, root); err != nil {
		return nil, err
	}

	for sectionID, questions := range drafts {
		path := []cache.PathStep{{Collection: "sections", ID: sectionID}}
		for _, q := range questions {
			if err := s.merge.UpsertNode(ctx, ownerID, surveyID, path, "questions", q); err != nil {
				s.log.Warn(ctx, "failed to re-apply draft after refresh", "survey", surveyID, "error", err)
			}
		}
	}
	if len(drafts) > 0 {
		s.track(ownerID, surveyID)
	}

	survey, _, ok := s.Get(ctx, ownerID, surveyID)
	if !ok {
		return fetched, nil
	}
	return survey, nil
}

// SaveQuestion merges a question into the cached tree. A question with an id
// updates the existing node in place; one without an id is appended as a
// draft for SyncDrafts to deliver.
func (s *SurveyService) SaveQuestion(ctx context.Context, ownerID, surveyID, sectionID string, q models.SurveyQuestion) error {
	if err := q.Validate(); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorValidation, err)
	}

	node, err := encodeNode(q)
	if err != nil {
		return fmt.Errorf("survey question: %w", err)
	}

	path := []cache.PathStep{{Collection: "sections", ID: sectionID}}
	if err := s.merge.UpsertNode(ctx, ownerID, surveyID, path, "questions", node); err != nil {
		return err
	}

	if q.Id == "" {
		s.track(ownerID, surveyID)
	}
	return nil
}

// SyncDrafts delivers every id-less question in the cached tree and writes
// the server-assigned ids back in place. Rejected drafts stay in the tree for
// the next run; their failures are joined into the returned error.
func (s *SurveyService) SyncDrafts(ctx context.Context, ownerID, surveyID string) error {
	root, _, ok := s.merge.GetByRootID(ctx, ownerID, surveyID)
	if !ok {
		return nil
	}

	var errs []error
	changed := false

	sections, _ := root["sections"].([]any)
	for _, item := range sections {
		section, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sectionID, _ := section["id"].(string)

		questions, _ := section["questions"].([]any)
		for _, qi := range questions {
			qn, ok := qi.(map[string]any)
			if !ok {
				continue
			}
			if id, _ := qn["id"].(string); id != "" {
				continue
			}

			var q models.SurveyQuestion
			if err := decodeNode(qn, &q); err != nil {
				errs = append(errs, fmt.Errorf("survey %s: %w", surveyID, err))
				continue
			}

			created, err := s.remote.CreateSurveyQuestion(ctx, surveyID, sectionID, q)
			if err != nil {
				s.log.Warn(ctx, "survey draft rejected, keeping for next sync",
					"survey", surveyID, "section", sectionID, "error", err)
				errs = append(errs, fmt.Errorf("survey %s: %w", surveyID, err))
				continue
			}
			if created != nil && created.Id != "" {
				qn["id"] = created.Id
				qn["updated_at"] = s.now().UTC().Format(time.RFC3339)
				changed = true
			}
		}
	}

	if changed {
		if _, err := s.merge.Put(ctx, ownerID, surveyID, root); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Handler adapts the service for the sync registry: it replays drafts for
// every survey touched since startup and forgets the ones that fully synced.
func (s *SurveyService) Handler() syncx.Handler {
	return func(ctx context.Context) error {
		s.mu.Lock()
		refs := make([]surveyRef, 0, len(s.pending))
		for ref := range s.pending {
			refs = append(refs, ref)
		}
		s.mu.Unlock()

		var errs []error
		for _, ref := range refs {
			if err := s.SyncDrafts(ctx, ref.ownerID, ref.surveyID); err != nil {
				errs = append(errs, err)
				continue
			}
			s.mu.Lock()
			delete(s.pending, ref)
			s.mu.Unlock()
		}
		return errors.Join(errs...)
	}
}

func (s *SurveyService) track(ownerID, surveyID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[surveyRef{ownerID: ownerID, surveyID: surveyID}] = struct{}{}
}

// collectDrafts gathers id-less questions per section id from the cached tree.
func (s *SurveyService) collectDrafts(ctx context.Context, ownerID, surveyID string) map[string][]cache.Node {
	root, _, ok := s.merge.GetByRootID(ctx, ownerID, surveyID)
	if !ok {
		return nil
	}

	drafts := make(map[string][]cache.Node)
	sections, _ := root["sections"].([]any)
	for _, item := range sections {
		section, ok := item.(map[string]any)
		if !ok {
			continue
		}
		sectionID, _ := section["id"].(string)

		questions, _ := section["questions"].([]any)
		for _, qi := range questions {
			qn, ok := qi.(map[string]any)
			if !ok {
				continue
			}
			if id, _ := qn["id"].(string); id == "" {
				drafts[sectionID] = append(drafts[sectionID], cache.Node(qn))
			}
		}
	}
	if len(drafts) == 0 {
		return nil
	}
	return drafts
}

func hasDrafts(root cache.Node) bool {
	sections, _ := root["sections"].([]any)
	for _, item := range sections {
		section, ok := item.(map[string]any)
		if !ok {
			continue
		}
		questions, _ := section["questions"].([]any)
		for _, qi := range questions {
			if qn, ok := qi.(map[string]any); ok {
				if id, _ := qn["id"].(string); id == "" {
					return true
				}
			}
		}
	}
	return false
}

// encodeNode and decodeNode convert between typed models and the generic
// tree form through their shared JSON shape.
func encodeNode(v any) (cache.Node, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node cache.Node
	if err := json.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	return node, nil
}

func decodeNode(node cache.Node, dst any) error {
	data, err := json.Marshal(node)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
