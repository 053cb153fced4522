package services

import (
	"context"

	"edupocket/internal/client/models"
	"edupocket/internal/client/repositories/parents"
	"edupocket/internal/client/repositories/students"
	"edupocket/internal/listx"
	"edupocket/internal/logging"
)

// RosterClient is the slice of the remote API the roster screens need.
type RosterClient interface {
	FetchStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, error)
	FetchParents(ctx context.Context, f models.ParentFilter) ([]models.Parent, error)
}

// RosterService serves students and guardians. Rosters change rarely, so they
// use the manual policy: List never touches the network, Refresh is wired to
// an explicit user gesture.
type RosterService struct {
	students students.Repository
	parents  parents.Repository
	remote   RosterClient
	log      logging.Logger
}

func NewRosterService(studentRepo students.Repository, parentRepo parents.Repository,
	remote RosterClient, log logging.Logger) *RosterService {
	return &RosterService{students: studentRepo, parents: parentRepo, remote: remote, log: log}
}

// Students returns cached students matching f.
func (s *RosterService) Students(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	return s.students.Query(ctx, f)
}

// Parents returns cached guardians matching f.
func (s *RosterService) Parents(ctx context.Context, f models.ParentFilter) ([]models.Parent, error) {
	return s.parents.Query(ctx, f)
}

// RefreshStudents refetches the student list and returns the updated cached
// view. Unlike List it propagates the fetch error: the user asked for fresh
// data and deserves to know it did not arrive.
func (s *RosterService) RefreshStudents(ctx context.Context, f models.StudentFilter) ([]models.Student, error) {
	fetched, err := s.remote.FetchStudents(ctx, f)
	if err != nil {
		return nil, err
	}

	fetched = listx.Dedupe(fetched, models.Student.DedupKey)
	if err := s.students.UpsertMany(ctx, fetched, true); err != nil {
		s.log.Warn(ctx, "student cache update incomplete", "error", err)
	}
	return s.students.Query(ctx, f)
}

// RefreshParents refetches the guardian list and returns the updated cached view.
func (s *RosterService) RefreshParents(ctx context.Context, f models.ParentFilter) ([]models.Parent, error) {
	fetched, err := s.remote.FetchParents(ctx, f)
	if err != nil {
		return nil, err
	}

	fetched = listx.Dedupe(fetched, models.Parent.DedupKey)
	if err := s.parents.UpsertMany(ctx, fetched, true); err != nil {
		s.log.Warn(ctx, "parent cache update incomplete", "error", err)
	}
	return s.parents.Query(ctx, f)
}
