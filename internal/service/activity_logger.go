package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/model"
	"github.com/BORETS2002/Sotuv-Admin-Baza/internal/repository"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/apperror"
	"github.com/BORETS2002/Sotuv-Admin-Baza/pkg/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ActivityEntry is one audit record waiting to be persisted.
type ActivityEntry struct {
	UserID     uuid.UUID
	ActionType string
	Details    map[string]interface{}
	EntityType string
	EntityID   string
	IPAddress  string
}

// ActivityLogger is the best-effort audit side channel. Record never blocks
// and never returns an error: entries go onto a bounded queue consumed by a
// single goroutine, and persistence failures are logged and dropped. A full
// queue drops the entry rather than stalling the request path.
type ActivityLogger interface {
	Record(entry ActivityEntry)
	Close()
}

type activityLogger struct {
	repo    repository.ActivityRepository
	queue   chan ActivityEntry
	done    chan struct{}
	closing sync.Once
}

func NewActivityLogger(repo repository.ActivityRepository, queueSize int) ActivityLogger {
	if queueSize <= 0 {
		queueSize = 256
	}
	l := &activityLogger{
		repo:  repo,
		queue: make(chan ActivityEntry, queueSize),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *activityLogger) Record(entry ActivityEntry) {
	select {
	case l.queue <- entry:
	default:
		logger.L().Warn("activity queue full, dropping entry",
			"action", entry.ActionType, "entity_id", entry.EntityID)
	}
}

func (l *activityLogger) run() {
	defer close(l.done)
	for entry := range l.queue {
		l.persist(entry)
	}
}

func (l *activityLogger) persist(entry ActivityEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	details, _ := json.Marshal(entry.Details)

	var userID *uuid.UUID
	if entry.UserID != uuid.Nil {
		uid := entry.UserID
		userID = &uid
	}

	record := &model.AdminActivity{
		UserID:     userID,
		ActionType: entry.ActionType,
		Details:    string(details),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		IPAddress:  entry.IPAddress,
	}

	if err := l.repo.Log(ctx, record); err != nil {
		logger.L().Error("failed to persist admin activity",
			"action", entry.ActionType, "entity_id", entry.EntityID, "error", err)
	}
}

// Close drains the queue and stops the consumer.
func (l *activityLogger) Close() {
	l.closing.Do(func() {
		close(l.queue)
		<-l.done
	})
}

// ActivityService is the read side of the audit trail.
type ActivityService interface {
	GetActivities(ctx context.Context, page, limit int, filter repository.ActivityFilter) ([]ActivityResponse, int64, error)
	GetActivity(ctx context.Context, id string) (*ActivityResponse, error)
}

type ActivityResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	UserEmail  string `json:"user_email"`
	ActionType string `json:"action_type"`
	Details    string `json:"details"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	IPAddress  string `json:"ip_address"`
	CreatedAt  string `json:"created_at"`
}

type activityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func mapActivity(a *model.AdminActivity) ActivityResponse {
	res := ActivityResponse{
		ID:         a.ID.String(),
		ActionType: a.ActionType,
		Details:    a.Details,
		EntityType: a.EntityType,
		EntityID:   a.EntityID,
		IPAddress:  a.IPAddress,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
	if a.UserID != nil {
		res.UserID = a.UserID.String()
	}
	if a.User != nil {
		res.UserEmail = a.User.Email
	}
	return res
}

func (s *activityService) GetActivities(ctx context.Context, page, limit int, filter repository.ActivityFilter) ([]ActivityResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, page, limit, filter)
	if err != nil {
		return nil, 0, apperror.Store(err, "failed to list activities")
	}
	res := make([]ActivityResponse, 0, len(entries))
	for i := range entries {
		res = append(res, mapActivity(&entries[i]))
	}
	return res, total, nil
}

func (s *activityService) GetActivity(ctx context.Context, id string) (*ActivityResponse, error) {
	entryID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.Validation("invalid activity id: %s", id)
	}
	entry, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("activity not found: %s", id)
		}
		return nil, apperror.Store(err, "failed to load activity")
	}
	res := mapActivity(entry)
	return &res, nil
}
