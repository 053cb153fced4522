package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"edupocket/internal/client/cache"
	"edupocket/internal/client/models"
	"edupocket/internal/client/repositories/snapshots"
)

type fakeSurveyAPI struct {
	survey    *models.Survey
	fetchErr  error
	createErr error

	createdQuestions int
}

func (f *fakeSurveyAPI) FetchSurvey(ctx context.Context, surveyID string) (*models.Survey, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.survey, nil
}

func (f *fakeSurveyAPI) CreateSurveyQuestion(ctx context.Context, surveyID, sectionID string, q models.SurveyQuestion) (*models.SurveyQuestion, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.createdQuestions++
	q.Id = fmt.Sprintf("q-server-%d", f.createdQuestions)
	return &q, nil
}

func newSurveyService(t *testing.T, db *sql.DB, api *fakeSurveyAPI) *SurveyService {
	t.Helper()
	log := testLogger(t)
	store := cache.NewStore(snapshots.NewSQLiteRepository(db), log)
	return NewSurveyService(cache.NewMergeCache(store, "survey"), api, log)
}

func seedSurvey(t *testing.T, svc *SurveyService) {
	t.Helper()
	svc.remote.(*fakeSurveyAPI).survey = &models.Survey{
		Id:    "sv1",
		Title: "Term feedback",
		Sections: []models.SurveySection{
			{Id: "sec1", Title: "Teaching", Questions: []models.SurveyQuestion{
				{Id: "q1", Text: "Rate the pace", Kind: "single_choice", Options: []string{"slow", "right", "fast"}},
			}},
		},
	}
	_, err := svc.Refresh(context.Background(), "u1", "sv1")
	require.NoError(t, err)
}

func TestSurveySaveQuestion_DraftVisibleInTree(t *testing.T) {
	db := setupDB(t)
	svc := newSurveyService(t, db, &fakeSurveyAPI{})
	ctx := context.Background()
	seedSurvey(t, svc)

	err := svc.SaveQuestion(ctx, "u1", "sv1", "sec1", models.SurveyQuestion{
		Text: "Anything else?", Kind: "free_text",
	})
	require.NoError(t, err)

	got, _, ok := svc.Get(ctx, "u1", "sv1")
	require.True(t, ok)
	require.Len(t, got.Sections, 1)
	require.Len(t, got.Sections[0].Questions, 2)
	assert.Empty(t, got.Sections[0].Questions[1].Id) // draft has no id yet
	assert.Equal(t, "Anything else?", got.Sections[0].Questions[1].Text)
}

func TestSurveyRefresh_PreservesLocalDrafts(t *testing.T) {
	db := setupDB(t)
	api := &fakeSurveyAPI{}
	svc := newSurveyService(t, db, api)
	ctx := context.Background()
	seedSurvey(t, svc)

	require.NoError(t, svc.SaveQuestion(ctx, "u1", "sv1", "sec1", models.SurveyQuestion{
		Text: "Offline draft", Kind: "free_text",
	}))

	// The server now returns a renamed survey without the draft.
	api.survey.Title = "Term feedback (v2)"
	got, err := svc.Refresh(ctx, "u1", "sv1")
	require.NoError(t, err)

	assert.Equal(t, "Term feedback (v2)", got.Title)
	require.Len(t, got.Sections, 1)
	require.Len(t, got.Sections[0].Questions, 2)
	assert.Equal(t, "Offline draft", got.Sections[0].Questions[1].Text)
}

func TestSyncDrafts_AssignsServerIdInPlace(t *testing.T) {
	db := setupDB(t)
	api := &fakeSurveyAPI{}
	svc := newSurveyService(t, db, api)
	ctx := context.Background()
	seedSurvey(t, svc)

	require.NoError(t, svc.SaveQuestion(ctx, "u1", "sv1", "sec1", models.SurveyQuestion{
		Text: "Offline draft", Kind: "free_text",
	}))

	require.NoError(t, svc.SyncDrafts(ctx, "u1", "sv1"))

	got, _, ok := svc.Get(ctx, "u1", "sv1")
	require.True(t, ok)
	require.Len(t, got.Sections[0].Questions, 2) // replaced in place, not duplicated
	assert.Equal(t, "q-server-1", got.Sections[0].Questions[1].Id)
}

func TestSyncDrafts_RejectedDraftStays(t *testing.T) {
	db := setupDB(t)
	api := &fakeSurveyAPI{createErr: errors.New("validation failed")}
	svc := newSurveyService(t, db, api)
	ctx := context.Background()
	seedSurvey(t, svc)

	require.NoError(t, svc.SaveQuestion(ctx, "u1", "sv1", "sec1", models.SurveyQuestion{
		Text: "Offline draft", Kind: "free_text",
	}))

	err := svc.SyncDrafts(ctx, "u1", "sv1")
	require.Error(t, err)

	got, _, ok := svc.Get(ctx, "u1", "sv1")
	require.True(t, ok)
	require.Len(t, got.Sections[0].Questions, 2)
	assert.Empty(t, got.Sections[0].Questions[1].Id) // still a draft
}

func TestSurveyHandler_ForgetsFullySyncedSurveys(t *testing.T) {
	db := setupDB(t)
	api := &fakeSurveyAPI{}
	svc := newSurveyService(t, db, api)
	ctx := context.Background()
	seedSurvey(t, svc)

	require.NoError(t, svc.SaveQuestion(ctx, "u1", "sv1", "sec1", models.SurveyQuestion{
		Text: "Offline draft", Kind: "free_text",
	}))

	h := svc.Handler()
	require.NoError(t, h(ctx))
	assert.Equal(t, 1, api.createdQuestions)

	// Second run has nothing left to replay.
	require.NoError(t, h(ctx))
	assert.Equal(t, 1, api.createdQuestions)
}
