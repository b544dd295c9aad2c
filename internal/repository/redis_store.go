package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/suretydesk/suretydesk/internal/domain"
)

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}

// RedisStore keeps each project as a JSON string under
// <prefix>:project:<id>, a creation-time index in the sorted set
// <prefix>:projects and the operation log as a list under
// <prefix>:project:<id>:logs.
type RedisStore struct {
	client redis.Cmdable
	keys   redisKeys
}

func NewRedisStore(client redis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "suretydesk"
	}
	return &RedisStore{client: client, keys: redisKeys(prefix)}
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Projects() ProjectRepo {
	return &RedisProjectRepo{reader: s.client, writer: s.client, keys: s.keys}
}

func (s *RedisStore) Logs() OperationLogRepo {
	return &RedisOperationLogRepo{reader: s.client, writer: s.client, keys: s.keys}
}

// WithinTx queues every write fn makes into one MULTI/EXEC block. Reads
// inside fn see committed data only.
func (s *RedisStore) WithinTx(ctx context.Context, fn func(ctx context.Context, projects ProjectRepo, logs OperationLogRepo) error) error {
	pipe := s.client.TxPipeline()
	projects := &RedisProjectRepo{reader: s.client, writer: pipe, keys: s.keys}
	logs := &RedisOperationLogRepo{reader: s.client, writer: pipe, keys: s.keys}

	if err := fn(ctx, projects, logs); err != nil {
		pipe.Discard()
		return err
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("committing redis transaction: %w", err)
	}
	return nil
}

type redisKeys string

func (k redisKeys) project(id string) string { return string(k) + ":project:" + id }
func (k redisKeys) logs(id string) string    { return string(k) + ":project:" + id + ":logs" }
func (k redisKeys) index() string            { return string(k) + ":projects" }

type projectDoc struct {
	ID           string             `json:"id"`
	Name         string             `json:"name"`
	BondCategory string             `json:"bondCategory"`
	Status       string             `json:"status"`
	CustomerName string             `json:"customerName"`
	Amount       float64            `json:"amount"`
	Report       *domain.ReportData `json:"report,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

func toProjectDoc(p *domain.Project) projectDoc {
	return projectDoc{
		ID:           p.ID,
		Name:         p.Name,
		BondCategory: string(p.BondCategory),
		Status:       string(p.Status),
		CustomerName: p.CustomerName,
		Amount:       p.Amount,
		Report:       p.Report,
		CreatedAt:    p.CreatedAt.UTC(),
		UpdatedAt:    p.UpdatedAt.UTC(),
	}
}

func (d projectDoc) project() *domain.Project {
	return &domain.Project{
		ID:           d.ID,
		Name:         d.Name,
		BondCategory: domain.BondCategory(d.BondCategory),
		Status:       domain.ProjectStatus(d.Status),
		CustomerName: d.CustomerName,
		Amount:       d.Amount,
		Report:       d.Report,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type RedisProjectRepo struct {
	reader redis.Cmdable
	writer redis.Cmdable
	keys   redisKeys
}

func (r *RedisProjectRepo) Create(ctx context.Context, p *domain.Project) error {
	n, err := r.reader.Exists(ctx, r.keys.project(p.ID)).Result()
	if err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("inserting project: id %s already exists", p.ID)
	}
	if err := r.put(ctx, toProjectDoc(p)); err != nil {
		return fmt.Errorf("inserting project: %w", err)
	}
	err = r.writer.ZAdd(ctx, r.keys.index(), redis.Z{
		Score:  float64(p.CreatedAt.UnixMilli()),
		Member: p.ID,
	}).Err()
	if err != nil {
		return fmt.Errorf("indexing project: %w", err)
	}
	return nil
}

func (r *RedisProjectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	doc, err := r.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return doc.project(), nil
}

func (r *RedisProjectRepo) List(ctx context.Context) ([]*domain.Project, error) {
	ids, err := r.reader.ZRevRange(ctx, r.keys.index(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.keys.project(id)
	}
	vals, err := r.reader.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}

	projects := make([]*domain.Project, 0, len(vals))
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue // indexed but deleted
		}
		var doc projectDoc
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decoding project %s: %w", ids[i], err)
		}
		projects = append(projects, doc.project())
	}
	return projects, nil
}

func (r *RedisProjectRepo) UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus, at time.Time) error {
	doc, err := r.get(ctx, id)
	if err != nil {
		return err
	}
	doc.Status = string(status)
	doc.UpdatedAt = at.UTC()
	if err := r.put(ctx, *doc); err != nil {
		return fmt.Errorf("updating project status: %w", err)
	}
	return nil
}

func (r *RedisProjectRepo) get(ctx context.Context, id string) (*projectDoc, error) {
	raw, err := r.reader.Get(ctx, r.keys.project(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading project %s: %w", id, err)
	}
	var doc projectDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding project %s: %w", id, err)
	}
	return &doc, nil
}

func (r *RedisProjectRepo) put(ctx context.Context, doc projectDoc) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return r.writer.Set(ctx, r.keys.project(doc.ID), b, 0).Err()
}

type logDoc struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Action    string    `json:"action"`
	Details   string    `json:"details,omitempty"`
	User      string    `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type RedisOperationLogRepo struct {
	reader redis.Cmdable
	writer redis.Cmdable
	keys   redisKeys
}

func (r *RedisOperationLogRepo) Insert(ctx context.Context, l *domain.OperationLog) error {
	b, err := json.Marshal(logDoc{
		ID:        l.ID,
		ProjectID: l.ProjectID,
		Action:    l.Action,
		Details:   l.Details,
		User:      l.User,
		CreatedAt: l.CreatedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("encoding operation log: %w", err)
	}
	if err := r.writer.RPush(ctx, r.keys.logs(l.ProjectID), b).Err(); err != nil {
		return fmt.Errorf("inserting operation log: %w", err)
	}
	return nil
}

func (r *RedisOperationLogRepo) ListByProject(ctx context.Context, projectID string) ([]*domain.OperationLog, error) {
	vals, err := r.reader.LRange(ctx, r.keys.logs(projectID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("listing operation logs: %w", err)
	}
	logs := make([]*domain.OperationLog, 0, len(vals))
	for _, v := range vals {
		var d logDoc
		if err := json.Unmarshal([]byte(v), &d); err != nil {
			return nil, fmt.Errorf("decoding operation log: %w", err)
		}
		logs = append(logs, &domain.OperationLog{
			ID:        d.ID,
			ProjectID: d.ProjectID,
			Action:    d.Action,
			Details:   d.Details,
			User:      d.User,
			CreatedAt: d.CreatedAt,
		})
	}
	return logs, nil
}
