package remote

import (
	"context"
	"encoding/json"

	"edupocket/internal/client/models"
)

// Client is the remote-operations boundary of the cache layer. Every method
// is an opaque network call that may fail; callers decide what a failure
// means for their screen. Authentication is the host application's concern —
// it hands the client a token and keeps it current.
type Client interface {
	// Ping probes server reachability; used by the connectivity monitor.
	Ping(ctx context.Context) error

	FetchClasses(ctx context.Context, f models.ClassFilter) ([]models.Class, error)
	FetchClassesVersion(ctx context.Context, f models.ClassFilter) (string, error)

	FetchStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, error)
	FetchParents(ctx context.Context, f models.ParentFilter) ([]models.Parent, error)

	FetchWallPosts(ctx context.Context, f models.WallPostFilter) ([]models.WallPost, error)
	FetchWallPostsVersion(ctx context.Context, f models.WallPostFilter) (string, error)
	CreateWallPost(ctx context.Context, p models.WallPost) (*models.WallPost, error)

	FetchActivities(ctx context.Context, f models.ActivityFilter) ([]models.Activity, error)
	CreateActivity(ctx context.Context, a models.Activity) (*models.Activity, error)
	FetchActivityGroups(ctx context.Context, classID, termID string) (json.RawMessage, error)

	FetchDashboard(ctx context.Context, ownerID string) (json.RawMessage, error)
	FetchSchedule(ctx context.Context, ownerID, termID string) (json.RawMessage, error)

	FetchSurvey(ctx context.Context, surveyID string) (*models.Survey, error)
	CreateSurveyQuestion(ctx context.Context, surveyID, sectionID string, q models.SurveyQuestion) (*models.SurveyQuestion, error)

	Close() error
}
